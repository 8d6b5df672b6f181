package session

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/menuup/internal/client/api"
	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/client/storage"
	"github.com/dmitrijs2005/menuup/internal/devbackend"
	"github.com/stretchr/testify/require"
)

var testUser = &models.User{ID: "42", Email: "ana@x.com", Name: "Ana"}

func newRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewSQLiteRepository(db)
}

func newStore(t *testing.T, repo storage.Repository) *Store {
	t.Helper()
	var p Persister
	if repo != nil {
		p = NewKVPersister(repo)
	}
	s := NewStore(p, nil)
	t.Cleanup(s.Close)
	return s
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

func newBackend(t *testing.T) (*devbackend.Backend, *api.HTTPClient) {
	t.Helper()
	b := devbackend.New([]byte("session-test"))
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)

	c, err := api.NewHTTPClient(srv.URL, 5*time.Second, api.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return b, c
}

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) listen(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) causes() []Cause {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cause, 0, len(r.changes))
	for _, c := range r.changes {
		out = append(out, c.Cause)
	}
	return out
}

type recordingNav struct {
	mu      sync.Mutex
	screens []Screen
}

func (n *recordingNav) ResetRoot(s Screen) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.screens = append(n.screens, s)
}

func (n *recordingNav) Screens() []Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Screen(nil), n.screens...)
}

// flakyRepo wraps a repository and fails or panics on demand.
type flakyRepo struct {
	storage.Repository
	getErr     error
	writeErr   error
	panicOnGet bool

	mu      sync.Mutex
	deletes int
}

func (f *flakyRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if f.panicOnGet {
		panic("storage exploded")
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.Get(ctx, key)
}

func (f *flakyRepo) SetMany(ctx context.Context, values map[string][]byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.Repository.SetMany(ctx, values)
}

func (f *flakyRepo) DeleteMany(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	f.deletes++
	f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.Repository.DeleteMany(ctx, keys...)
}

var errDisk = errors.New("disk failure")

// checkerFunc adapts a function to TokenChecker.
type checkerFunc func(ctx context.Context, token string) error

func (f checkerFunc) ValidateToken(ctx context.Context, token string) error { return f(ctx, token) }
