package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/menuup/internal/client/api"
	"github.com/dmitrijs2005/menuup/internal/logging"
)

// DefaultValidateTimeout bounds one token check.
const DefaultValidateTimeout = 10 * time.Second

// TokenChecker asks the backend whether a token is still accepted.
type TokenChecker interface {
	ValidateToken(ctx context.Context, token string) error
}

// Validator checks every newly set token against the backend and clears the
// session when the backend answers 401. Any other outcome leaves the
// session alone. Transitions to an empty token are never checked, so the
// validator's own clear does not trigger it again.
type Validator struct {
	store   *Store
	checker TokenChecker
	timeout time.Duration
	log     logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	unsubscribe func()
}

func NewValidator(store *Store, checker TokenChecker, timeout time.Duration, log logging.Logger) *Validator {
	if timeout <= 0 {
		timeout = DefaultValidateTimeout
	}
	if log == nil {
		log = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Validator{store: store, checker: checker, timeout: timeout, log: log, ctx: ctx, cancel: cancel}
}

// Start subscribes to the store. Calling it twice has no extra effect.
func (v *Validator) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unsubscribe == nil {
		v.unsubscribe = v.store.Subscribe(v.onChange)
	}
}

func (v *Validator) onChange(c Change) {
	if !c.TokenSet() {
		return
	}
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		v.validate(c.Curr.Token)
	}()
}

func (v *Validator) validate(token string) {
	ctx, cancel := context.WithTimeout(v.ctx, v.timeout)
	defer cancel()

	err := v.checker.ValidateToken(ctx, token)
	switch {
	case err == nil:
		v.log.Debug(ctx, "token accepted")
	case errors.Is(err, api.ErrUnauthorized):
		if v.store.ClearIfToken(token, CauseRevoked) {
			v.log.Info(ctx, "token rejected by server, session cleared")
		}
	default:
		v.log.Warn(ctx, "token validation inconclusive, keeping session", "error", err)
	}
}

// Wait blocks until all started validations have finished.
func (v *Validator) Wait() {
	v.wg.Wait()
}

// Close unsubscribes, cancels in-flight checks and waits for them.
func (v *Validator) Close() {
	v.mu.Lock()
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	v.mu.Unlock()

	v.cancel()
	v.wg.Wait()
}
