package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	secret := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(secret, salt)
	key2 := DeriveKey(secret, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	expectedHex := "9290403300158e19f27e48e7087f7383b03065bf5b25ef23ebc40229616cd8b3"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	secret := []byte("secret-password")

	k1 := DeriveKey(secret, []byte("salt-1"))
	k2 := DeriveKey(secret, []byte("salt-2"))
	k3 := DeriveKey([]byte("other"), []byte("salt-1"))

	assert.Len(t, k1, KeySize)
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	sealed, err := Seal(key, []byte("bearer-token"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "bearer-token")

	plain, err := Open(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("bearer-token"), plain)
}

func TestSeal_FreshNonceEachTime(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	a, err := Seal(key, []byte("same"))
	require.NoError(t, err)
	b, err := Seal(key, []byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_WrongKey(t *testing.T) {
	sealed, err := Seal(DeriveKey([]byte("pw"), []byte("salt")), []byte("data"))
	require.NoError(t, err)

	_, err = Open(DeriveKey([]byte("other"), []byte("salt")), sealed)
	require.Error(t, err)
}

func TestOpen_Tampered(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	sealed, err := Seal(key, []byte("data"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xFF
	_, err = Open(key, sealed)
	require.Error(t, err)
}

func TestOpen_TooShort(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	_, err := Open(key, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, err := Seal([]byte("short"), []byte("data"))
	require.Error(t, err)
}
