package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/client/storage"
	"github.com/dmitrijs2005/menuup/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoStoredSession   = errors.New("no stored session")
	ErrCorruptSession    = errors.New("stored session is corrupt")
	ErrExpiredSession    = errors.New("stored token has expired")
	errBootstrapPanicked = errors.New("bootstrap panicked")
)

// Bootstrapper restores the persisted session at process start.
type Bootstrapper struct {
	store *Store
	repo  storage.Repository
	log   logging.Logger
	now   func() time.Time
}

func NewBootstrapper(store *Store, repo storage.Repository, log logging.Logger) *Bootstrapper {
	if log == nil {
		log = logging.Discard()
	}
	return &Bootstrapper{store: store, repo: repo, log: log, now: time.Now}
}

// Hydrate loads the stored credentials into the store when both keys are
// present and usable. Failures leave the session empty and are reported
// only through the returned error, which callers may ignore. The store is
// marked hydrated on every path, including a panic in storage.
func (b *Bootstrapper) Hydrate(ctx context.Context) (err error) {
	defer b.store.MarkHydrated()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", errBootstrapPanicked, p)
			b.log.Error(ctx, "session bootstrap panicked", "panic", p)
		}
	}()

	token, user, err := b.read(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoStoredSession) {
			b.log.Warn(ctx, "stored session discarded", "error", err)
			b.discard(ctx, err)
		}
		return err
	}

	if err := b.store.Restore(token, user); err != nil {
		return err
	}
	b.log.Info(ctx, "session restored", "user", user.Email)
	return nil
}

func (b *Bootstrapper) read(ctx context.Context) (string, *models.User, error) {
	tokenRaw, err := b.repo.Get(ctx, TokenKey)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", TokenKey, err)
	}
	userRaw, err := b.repo.Get(ctx, UserKey)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", UserKey, err)
	}

	switch {
	case len(tokenRaw) == 0 && len(userRaw) == 0:
		return "", nil, ErrNoStoredSession
	case len(tokenRaw) == 0 || len(userRaw) == 0:
		return "", nil, fmt.Errorf("%w: only one of the keys is present", ErrCorruptSession)
	}

	var user models.User
	if err := json.Unmarshal(userRaw, &user); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if !user.Valid() {
		return "", nil, fmt.Errorf("%w: user without id or email", ErrCorruptSession)
	}

	token := string(tokenRaw)
	if b.expired(token) {
		return "", nil, ErrExpiredSession
	}
	return token, &user, nil
}

// expired reports whether token is a JWT whose exp claim has passed. The
// signature cannot be checked on the device; the server stays the
// authority and opaque tokens are left to the validator.
func (b *Bootstrapper) expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !b.now().Before(claims.ExpiresAt.Time)
}

// discard removes unusable keys. Storage read errors leave them in place;
// the next start may read them fine.
func (b *Bootstrapper) discard(ctx context.Context, cause error) {
	if !errors.Is(cause, ErrCorruptSession) && !errors.Is(cause, ErrExpiredSession) && !errors.Is(cause, storage.ErrUndecryptable) {
		return
	}
	if err := b.repo.DeleteMany(ctx, TokenKey, UserKey); err != nil {
		b.log.Warn(ctx, "failed to remove stored session", "error", err)
	}
}
