// Package storage is the device-local key/value store of the client. Values
// are opaque bytes kept in the SQLite "metadata" table; Sealed optionally
// encrypts them at rest.
package storage

import "context"

// Repository is a key/value store. Get returns (nil, nil) for a missing key
// and Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// SetMany writes all pairs or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	// DeleteMany removes all keys or none of them.
	DeleteMany(ctx context.Context, keys ...string) error
}
