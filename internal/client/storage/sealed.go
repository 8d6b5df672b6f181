package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/menuup/internal/common"
	"github.com/dmitrijs2005/menuup/internal/cryptox"
)

// SaltKey holds the key-derivation salt in clear text next to the sealed
// values.
const SaltKey = "storage.salt"

// ErrUndecryptable is returned for values that do not open under the
// current secret (a changed secret or a corrupted row).
var ErrUndecryptable = errors.New("stored value cannot be decrypted")

// Sealed encrypts every value written through it. Keys stay readable.
type Sealed struct {
	inner Repository
	key   []byte
}

// NewSealed derives the sealing key from secret and the salt kept in inner,
// creating the salt on first use.
func NewSealed(ctx context.Context, inner Repository, secret []byte) (*Sealed, error) {
	if len(secret) == 0 {
		return nil, errors.New("storage secret is empty")
	}

	salt, err := inner.Get(ctx, SaltKey)
	if err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		if err := inner.Set(ctx, SaltKey, salt); err != nil {
			return nil, fmt.Errorf("failed to store salt: %w", err)
		}
	}

	return &Sealed{inner: inner, key: cryptox.DeriveKey(secret, salt)}, nil
}

func (s *Sealed) seal(key string, value []byte) ([]byte, error) {
	out, err := cryptox.Seal(s.key, value)
	if err != nil {
		return nil, fmt.Errorf("failed to seal metadata[%s]: %w", key, err)
	}
	return out, nil
}

func (s *Sealed) open(key string, value []byte) ([]byte, error) {
	out, err := cryptox.Open(s.key, value)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata[%s]", ErrUndecryptable, key)
	}
	return out, nil
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.inner.Get(ctx, key)
	if err != nil || v == nil {
		return v, err
	}
	return s.open(key, v)
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	v, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, v)
}

func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// List returns the opened values. The salt is not part of the result.
func (s *Sealed) List(ctx context.Context) (map[string][]byte, error) {
	all, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	delete(all, SaltKey)

	for k, v := range all {
		plain, err := s.open(k, v)
		if err != nil {
			return nil, err
		}
		all[k] = plain
	}
	return all, nil
}

// Clear removes every value but keeps the salt so the key stays valid.
func (s *Sealed) Clear(ctx context.Context) error {
	all, err := s.inner.List(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		if k != SaltKey {
			keys = append(keys, k)
		}
	}
	return s.inner.DeleteMany(ctx, keys...)
}

func (s *Sealed) SetMany(ctx context.Context, values map[string][]byte) error {
	sealed := make(map[string][]byte, len(values))
	for k, v := range values {
		out, err := s.seal(k, v)
		if err != nil {
			return err
		}
		sealed[k] = out
	}
	return s.inner.SetMany(ctx, sealed)
}

func (s *Sealed) DeleteMany(ctx context.Context, keys ...string) error {
	return s.inner.DeleteMany(ctx, keys...)
}
