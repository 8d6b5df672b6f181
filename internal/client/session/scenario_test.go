package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/menuup/internal/devbackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type app struct {
	store     *Store
	validator *Validator
	guard     *Guard
	nav       *recordingNav
	repo      *flakyRepo
}

// startApp wires the components in the same order as cmd/client: guard and
// validator subscribe before the bootstrapper runs.
func startApp(t *testing.T, checker TokenChecker) *app {
	t.Helper()
	a := &app{repo: &flakyRepo{Repository: newRepo(t)}, nav: &recordingNav{}}
	a.store = newStore(t, a.repo)
	a.validator = startValidator(t, a.store, checker, time.Second)
	a.guard = NewGuard(a.store, a.nav, nil)
	a.guard.Start()
	t.Cleanup(a.guard.Close)
	return a
}

func (a *app) boot(t *testing.T) error {
	t.Helper()
	err := NewBootstrapper(a.store, a.repo, nil).Hydrate(context.Background())
	a.validator.Wait()
	flush(t, a.store)
	return err
}

func TestColdStart_ValidTokenLandsOnHomeOnly(t *testing.T) {
	b, client := newBackend(t)
	devbackend.Seed(b)
	tok, err := b.IssueToken(devbackend.DemoEmail, time.Hour)
	require.NoError(t, err)

	a := startApp(t, client)
	user, err := json.Marshal(map[string]string{"id": "7", "email": devbackend.DemoEmail, "nome": "Demo"})
	require.NoError(t, err)
	seedStored(t, a.repo, tok, user)

	require.NoError(t, a.boot(t))

	assert.Equal(t, []Screen{ScreenHome}, a.nav.Screens(), "sign-in must never be shown")
	assert.Equal(t, StateSignedIn, a.guard.State())
	assert.Equal(t, tok, a.store.Snapshot().Token)
	assert.Equal(t, 1, b.Calls("GET /auth/validate-token"))
	assert.Equal(t, 0, a.repo.deletes)
}

func TestColdStart_RevokedTokenEndsOnSignIn(t *testing.T) {
	b, client := newBackend(t)
	devbackend.Seed(b)
	tok, err := b.IssueToken(devbackend.DemoEmail, time.Hour)
	require.NoError(t, err)
	b.Revoke(tok)

	a := startApp(t, client)
	seedStored(t, a.repo, tok, []byte(`{"id":"7","email":"demo@menuup.app"}`))

	require.NoError(t, a.boot(t))

	assert.Equal(t, []Screen{ScreenHome, ScreenSignIn}, a.nav.Screens())
	assert.False(t, a.store.Snapshot().SignedIn())
	stored, err := a.repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestColdStart_ValidationUnreachableKeepsUserSignedIn(t *testing.T) {
	b, client := newBackend(t)
	devbackend.Seed(b)
	tok, err := b.IssueToken(devbackend.DemoEmail, time.Hour)
	require.NoError(t, err)
	b.SetDelay(3 * time.Second)

	a := startApp(t, client)
	seedStored(t, a.repo, tok, []byte(`{"id":"7","email":"demo@menuup.app"}`))

	require.NoError(t, a.boot(t))

	assert.Equal(t, []Screen{ScreenHome}, a.nav.Screens())
	assert.Equal(t, tok, a.store.Snapshot().Token)
}

func TestColdStart_EmptyStorageGoesToSignIn(t *testing.T) {
	_, client := newBackend(t)
	a := startApp(t, client)

	require.ErrorIs(t, a.boot(t), ErrNoStoredSession)

	assert.Equal(t, []Screen{ScreenSignIn}, a.nav.Screens())
	assert.Equal(t, StateSignedOut, a.guard.State())
}
