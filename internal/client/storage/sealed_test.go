package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSealed(t *testing.T, secret string) (*Sealed, *SQLiteRepository) {
	t.Helper()
	raw := NewSQLiteRepository(setupDB(t))
	s, err := NewSealed(context.Background(), raw, []byte(secret))
	require.NoError(t, err)
	return s, raw
}

func TestSealed_RoundTripAndAtRestEncryption(t *testing.T) {
	s, raw := newSealed(t, "passphrase")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth.token", []byte("tok-123")))

	v, err := s.Get(ctx, "auth.token")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-123"), v)

	stored, err := raw.Get(ctx, "auth.token")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("tok-123"), stored)
	assert.NotContains(t, string(stored), "tok-123")
}

func TestSealed_MissingKey(t *testing.T) {
	s, _ := newSealed(t, "passphrase")

	v, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSealed_SaltIsReused(t *testing.T) {
	s, raw := newSealed(t, "passphrase")
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v")))

	salt, err := raw.Get(ctx, SaltKey)
	require.NoError(t, err)
	require.NotEmpty(t, salt)

	again, err := NewSealed(ctx, raw, []byte("passphrase"))
	require.NoError(t, err)

	v, err := again.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	saltAfter, err := raw.Get(ctx, SaltKey)
	require.NoError(t, err)
	assert.Equal(t, salt, saltAfter)
}

func TestSealed_WrongSecret(t *testing.T) {
	s, raw := newSealed(t, "passphrase")
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "auth.token", []byte("tok")))

	other, err := NewSealed(ctx, raw, []byte("different"))
	require.NoError(t, err)

	_, err = other.Get(ctx, "auth.token")
	require.ErrorIs(t, err, ErrUndecryptable)

	_, err = other.List(ctx)
	require.ErrorIs(t, err, ErrUndecryptable)
}

func TestSealed_ListHidesSalt(t *testing.T) {
	s, _ := newSealed(t, "passphrase")
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, m)
}

func TestSealed_ClearKeepsSalt(t *testing.T) {
	s, raw := newSealed(t, "passphrase")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Clear(ctx))

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)

	salt, err := raw.Get(ctx, SaltKey)
	require.NoError(t, err)
	assert.NotEmpty(t, salt)
}

func TestSealed_DeleteMany(t *testing.T) {
	s, _ := newSealed(t, "passphrase")
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))
	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.DeleteMany(ctx, "b"))

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestNewSealed_EmptySecret(t *testing.T) {
	_, err := NewSealed(context.Background(), NewSQLiteRepository(setupDB(t)), nil)
	require.Error(t, err)
}
