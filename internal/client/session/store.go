// Package session holds the client's authentication state and the
// components reacting to it.
//
// Store is the single in-memory source of truth for {token, user, hydrated}.
// Every mutation is published as a Change to subscribers; Validator and
// Guard are such subscribers. The store also owns persistence: populated
// sessions are written to device storage and cleared sessions are removed
// from it on a background worker, in mutation order, without blocking the
// caller.
//
// Bootstrapper restores the persisted session once at process start and
// always finishes by marking the store hydrated.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/logging"
)

// Cause tells subscribers why the session changed.
type Cause string

const (
	CauseLogin   Cause = "login"
	CauseRestore Cause = "restore"
	CauseHydrate Cause = "hydrate"
	CauseLogout  Cause = "logout"
	CauseRevoked Cause = "revoked"
)

var ErrInvalidSession = errors.New("session needs a token and a user with id and email")

var errStoreClosed = errors.New("session store closed")

// Change is one published mutation.
type Change struct {
	Prev  models.Session
	Curr  models.Session
	Cause Cause
}

// TokenSet reports a transition from no token to a token.
func (c Change) TokenSet() bool {
	return c.Prev.Token == "" && c.Curr.Token != ""
}

// Listener receives changes in mutation order. It runs on the mutating
// goroutine and must not mutate the store synchronously.
type Listener func(Change)

// Persister mirrors the session to device storage.
type Persister interface {
	Save(ctx context.Context, token string, user *models.User) error
	Remove(ctx context.Context) error
}

const persistQueueSize = 16

type persistJob struct {
	cause Cause
	run   func(ctx context.Context) error
	done  chan struct{} // flush barrier when run is nil
}

type Store struct {
	log       logging.Logger
	persister Persister

	// notifyMu serialises mutation and delivery so listeners observe
	// changes in the order they happened.
	notifyMu sync.Mutex

	mu        sync.Mutex
	session   models.Session
	listeners []subscriber
	nextID    int
	closed    bool

	jobs       chan persistJob
	workerDone chan struct{}
}

// NewStore returns an empty, not yet hydrated store. A nil persister keeps
// the session in memory only.
func NewStore(persister Persister, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	s := &Store{
		log:        log,
		persister:  persister,
		jobs:       make(chan persistJob, persistQueueSize),
		workerDone: make(chan struct{}),
	}
	go s.persistLoop()
	return s
}

// Snapshot returns the current session.
func (s *Store) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

type subscriber struct {
	id int
	fn Listener
}

// Subscribe registers fn for future changes. Listeners are called in
// subscription order. The returned func removes fn.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// SubscribeCurrent registers fn like Subscribe and hands the snapshot taken
// at registration to current. No change reaches fn before current returns.
// It must not be called from inside a listener.
func (s *Store) SubscribeCurrent(fn Listener, current func(models.Session)) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	unsubscribe = s.Subscribe(fn)
	current(s.Snapshot())
	return unsubscribe
}

// SetSession replaces token and user together after a login and schedules
// both to be persisted.
func (s *Store) SetSession(token string, user *models.User) error {
	if token == "" || !user.Valid() {
		return ErrInvalidSession
	}
	u := *user
	s.apply(CauseLogin, true, func(cur models.Session) (models.Session, bool) {
		cur.Token, cur.User = token, &u
		return cur, true
	})
	return nil
}

// Restore populates the session from device storage. Nothing is written
// back since the values came from there.
func (s *Store) Restore(token string, user *models.User) error {
	if token == "" || !user.Valid() {
		return ErrInvalidSession
	}
	u := *user
	s.apply(CauseRestore, false, func(cur models.Session) (models.Session, bool) {
		cur.Token, cur.User = token, &u
		return cur, true
	})
	return nil
}

// ClearSession drops the credentials and schedules removal of the
// persisted keys. It always publishes, even when already signed out, so the
// persisted keys are removed in every case.
func (s *Store) ClearSession() {
	s.clear(CauseLogout, func(models.Session) bool { return true })
}

// ClearIfToken clears the session only while it still holds token. It
// reports whether it did.
func (s *Store) ClearIfToken(token string, cause Cause) bool {
	if token == "" {
		return false
	}
	return s.clear(cause, func(cur models.Session) bool { return cur.Token == token })
}

func (s *Store) clear(cause Cause, when func(models.Session) bool) bool {
	return s.apply(cause, true, func(cur models.Session) (models.Session, bool) {
		if !when(cur) {
			return cur, false
		}
		cur.Token, cur.User = "", nil
		return cur, true
	})
}

// MarkHydrated flips Hydrated to true. Only the first call has an effect
// and reports true.
func (s *Store) MarkHydrated() bool {
	return s.apply(CauseHydrate, false, func(cur models.Session) (models.Session, bool) {
		if cur.Hydrated {
			return cur, false
		}
		cur.Hydrated = true
		return cur, true
	})
}

func (s *Store) apply(cause Cause, persist bool, mutate func(models.Session) (models.Session, bool)) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.session
	next, ok := mutate(prev)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.session = next
	if persist {
		s.enqueueLocked(cause, next)
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.fn)
	}
	s.mu.Unlock()

	ch := Change{Prev: prev, Curr: next, Cause: cause}
	s.log.Debug(context.Background(), "session changed", "cause", cause, "signed_in", next.SignedIn(), "hydrated", next.Hydrated)
	for _, l := range listeners {
		l(ch)
	}
	return true
}

func (s *Store) enqueueLocked(cause Cause, next models.Session) {
	if s.persister == nil {
		return
	}
	if s.closed {
		s.log.Warn(context.Background(), "session not persisted", "cause", cause, "error", errStoreClosed)
		return
	}

	job := persistJob{cause: cause}
	if next.SignedIn() {
		token, user := next.Token, next.User
		job.run = func(ctx context.Context) error { return s.persister.Save(ctx, token, user) }
	} else {
		job.run = s.persister.Remove
	}
	s.jobs <- job
}

func (s *Store) persistLoop() {
	defer close(s.workerDone)
	ctx := context.Background()
	for job := range s.jobs {
		if job.run == nil {
			close(job.done)
			continue
		}
		if err := job.run(ctx); err != nil {
			s.log.Error(ctx, "failed to persist session", "cause", job.cause, "error", err)
		}
	}
}

// Flush waits until every write queued before the call has finished.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	s.jobs <- persistJob{done: done}
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains queued writes and stops the worker. The in-memory session
// keeps working; later changes are no longer persisted.
func (s *Store) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()
	<-s.workerDone
}
