package session

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/menuup/internal/client/storage"
	"github.com/dmitrijs2005/menuup/internal/devbackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStored(t *testing.T, repo storage.Repository, token string, user []byte) {
	t.Helper()
	values := map[string][]byte{}
	if token != "" {
		values[TokenKey] = []byte(token)
	}
	if user != nil {
		values[UserKey] = user
	}
	require.NoError(t, repo.SetMany(context.Background(), values))
}

func hydrateWith(t *testing.T, repo storage.Repository) (*Store, *recorder, error) {
	t.Helper()
	s := newStore(t, nil)
	rec := &recorder{}
	s.Subscribe(rec.listen)
	err := NewBootstrapper(s, repo, nil).Hydrate(context.Background())
	return s, rec, err
}

func TestHydrate_RestoresStoredPair(t *testing.T) {
	repo := newRepo(t)
	seedStored(t, repo, "opaque-token", []byte(`{"id":42,"email":"ana@x.com","nome":"Ana"}`))

	s, rec, err := hydrateWith(t, repo)
	require.NoError(t, err)

	got := s.Snapshot()
	assert.True(t, got.Hydrated)
	assert.Equal(t, "opaque-token", got.Token)
	require.NotNil(t, got.User)
	assert.Equal(t, "42", string(got.User.ID))
	assert.Equal(t, []Cause{CauseRestore, CauseHydrate}, rec.causes())
}

func TestHydrate_NothingStored(t *testing.T) {
	s, rec, err := hydrateWith(t, newRepo(t))
	require.ErrorIs(t, err, ErrNoStoredSession)

	assert.True(t, s.Snapshot().Hydrated)
	assert.False(t, s.Snapshot().SignedIn())
	assert.Equal(t, []Cause{CauseHydrate}, rec.causes())
}

func TestHydrate_DiscardsUnusableData(t *testing.T) {
	expired, err := devbackend.GenerateToken("42", []byte("k"), -time.Hour)
	require.NoError(t, err)
	fresh, err := devbackend.GenerateToken("42", []byte("k"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		user  []byte
		want  error
	}{
		{"corrupt user json", "tok", []byte(`{not json`), ErrCorruptSession},
		{"user without email", "tok", []byte(`{"id":"1"}`), ErrCorruptSession},
		{"token without user", "tok", nil, ErrCorruptSession},
		{"user without token", "", []byte(`{"id":"1","email":"a@x.com"}`), ErrCorruptSession},
		{"expired jwt", expired, []byte(`{"id":"42","email":"a@x.com"}`), ErrExpiredSession},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo(t)
			seedStored(t, repo, tc.token, tc.user)

			s, _, err := hydrateWith(t, repo)
			require.ErrorIs(t, err, tc.want)

			got := s.Snapshot()
			assert.True(t, got.Hydrated)
			assert.False(t, got.SignedIn())
			assert.Nil(t, got.User)

			left, err := repo.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, left, "unusable keys are removed")
		})
	}

	t.Run("fresh jwt is kept", func(t *testing.T) {
		repo := newRepo(t)
		seedStored(t, repo, fresh, []byte(`{"id":"42","email":"a@x.com"}`))

		s, _, err := hydrateWith(t, repo)
		require.NoError(t, err)
		assert.Equal(t, fresh, s.Snapshot().Token)
	})
}

func TestHydrate_ReadErrorStillHydrates(t *testing.T) {
	inner := newRepo(t)
	seedStored(t, inner, "tok", []byte(`{"id":"1","email":"a@x.com"}`))
	repo := &flakyRepo{Repository: inner, getErr: errDisk}

	s, _, err := hydrateWith(t, repo)
	require.ErrorIs(t, err, errDisk)

	assert.True(t, s.Snapshot().Hydrated)
	assert.False(t, s.Snapshot().SignedIn())
	assert.Equal(t, 0, repo.deletes, "a read error must not wipe storage")
}

func TestHydrate_PanicStillHydrates(t *testing.T) {
	repo := &flakyRepo{Repository: newRepo(t), panicOnGet: true}

	s, rec, err := hydrateWith(t, repo)
	require.ErrorIs(t, err, errBootstrapPanicked)

	assert.True(t, s.Snapshot().Hydrated)
	assert.Equal(t, []Cause{CauseHydrate}, rec.causes())
}

func TestHydrate_UndecryptableSealedStorage(t *testing.T) {
	ctx := context.Background()
	raw := newRepo(t)

	sealed, err := storage.NewSealed(ctx, raw, []byte("old secret"))
	require.NoError(t, err)
	seedStored(t, sealed, "tok", []byte(`{"id":"1","email":"a@x.com"}`))

	reopened, err := storage.NewSealed(ctx, raw, []byte("new secret"))
	require.NoError(t, err)

	s, _, err := hydrateWith(t, reopened)
	require.ErrorIs(t, err, storage.ErrUndecryptable)
	assert.True(t, s.Snapshot().Hydrated)
	assert.False(t, s.Snapshot().SignedIn())

	v, err := raw.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestHydrate_SecondRunDoesNotRehydrate(t *testing.T) {
	repo := newRepo(t)
	s := newStore(t, nil)
	rec := &recorder{}
	s.Subscribe(rec.listen)
	b := NewBootstrapper(s, repo, nil)

	_ = b.Hydrate(context.Background())
	_ = b.Hydrate(context.Background())

	assert.Equal(t, []Cause{CauseHydrate}, rec.causes())
}
