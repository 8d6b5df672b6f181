package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/logging"
)

// Screen is a root destination of the presentation layer.
type Screen string

const (
	ScreenSignIn Screen = "sign-in"
	ScreenHome   Screen = "home"
)

// Navigator replaces the whole screen stack with a new root.
type Navigator interface {
	ResetRoot(screen Screen)
}

type State int

const (
	StateLoading State = iota
	StateSignedOut
	StateSignedIn
)

func (s State) String() string {
	switch s {
	case StateSignedOut:
		return "signed-out"
	case StateSignedIn:
		return "signed-in"
	default:
		return "loading"
	}
}

// StateOf derives the guard state of a session snapshot.
func StateOf(s models.Session) State {
	switch {
	case !s.Hydrated:
		return StateLoading
	case s.SignedIn():
		return StateSignedIn
	default:
		return StateSignedOut
	}
}

// Guard keeps the navigator's root consistent with the session. It resets
// the root on every transition into SignedOut or SignedIn and does nothing
// while loading.
type Guard struct {
	store *Store
	nav   Navigator
	log   logging.Logger

	mu          sync.Mutex
	state       State
	started     bool
	unsubscribe func()
}

func NewGuard(store *Store, nav Navigator, log logging.Logger) *Guard {
	if log == nil {
		log = logging.Discard()
	}
	return &Guard{store: store, nav: nav, log: log, state: StateLoading}
}

// Start subscribes and evaluates the current snapshot, in case the store
// was hydrated before the guard existed. The snapshot is evaluated before
// any later change is delivered.
func (g *Guard) Start() {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		return
	}
	g.started = true
	g.mu.Unlock()

	unsubscribe := g.store.SubscribeCurrent(func(c Change) { g.evaluate(c.Curr) }, g.evaluate)

	g.mu.Lock()
	g.unsubscribe = unsubscribe
	g.mu.Unlock()
}

// State reports the last evaluated state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
	g.started = false
}

func (g *Guard) evaluate(s models.Session) {
	next := StateOf(s)

	g.mu.Lock()
	defer g.mu.Unlock()
	if next == g.state || next == StateLoading {
		return
	}
	prev := g.state
	g.state = next

	screen := ScreenSignIn
	if next == StateSignedIn {
		screen = ScreenHome
	}
	g.log.Debug(context.Background(), "navigation reset", "from", prev.String(), "to", next.String(), "screen", string(screen))
	g.nav.ResetRoot(screen)
}
