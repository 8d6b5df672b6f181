// Package services contains application services for the MenuUp client.
// This file defines the credential operations: login, register, logout and
// password change, all of which act on the shared session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/menuup/internal/client/api"
	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/logging"
)

// ErrNotSignedIn is returned by operations that need a session.
var ErrNotSignedIn = errors.New("not signed in")

// SessionStore is the part of session.Store the services use.
type SessionStore interface {
	Snapshot() models.Session
	SetSession(token string, user *models.User) error
	ClearSession()
}

// AuthService defines the credential operations used by the presentation
// layer.
//
// Contract:
//   - Login: authenticate and populate the session; false on any failure.
//   - Register: create an account; the session is not touched, the user
//     signs in afterwards.
//   - Logout: best-effort server notification, then always clear locally.
//   - ChangePassword: validate locally, change on the server, then log out.
//
// Login, Register and Logout never return errors; failures are logged.
type AuthService interface {
	Login(ctx context.Context, email, password string) bool
	Register(ctx context.Context, name, email, password string) bool
	Logout(ctx context.Context)
	ChangePassword(ctx context.Context, current, next, confirm string) error
}

type authService struct {
	client api.Client
	store  SessionStore
	log    logging.Logger
}

func NewAuthService(client api.Client, store SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{client: client, store: store, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) bool {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		a.log.Info(ctx, "login rejected: missing credentials")
		return false
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.log.Warn(ctx, "login failed", "email", email, "error", err)
		return false
	}
	if err := a.store.SetSession(res.Token, res.User); err != nil {
		a.log.Warn(ctx, "login response rejected", "email", email, "error", err)
		return false
	}

	a.log.Info(ctx, "signed in", "email", email)
	return true
}

func (a *authService) Register(ctx context.Context, name, email, password string) bool {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		a.log.Info(ctx, "registration rejected: missing fields")
		return false
	}

	if err := a.client.Register(ctx, name, email, password); err != nil {
		a.log.Warn(ctx, "registration failed", "email", email, "error", err)
		return false
	}

	a.log.Info(ctx, "account created", "email", email)
	return true
}

func (a *authService) Logout(ctx context.Context) {
	if token := a.store.Snapshot().Token; token != "" {
		if err := a.client.Logout(ctx, token); err != nil {
			a.log.Warn(ctx, "server logout failed, clearing local session anyway", "error", err)
		}
	}
	a.store.ClearSession()
	a.log.Info(ctx, "signed out")
}

// ChangePassword returns models.ErrValidation for local problems,
// api.ErrUnauthorized when the current password is wrong and
// api.ErrBadRequest with the server's message otherwise. On success the
// session is ended so the user signs in with the new password.
func (a *authService) ChangePassword(ctx context.Context, current, next, confirm string) error {
	change := models.PasswordChange{Current: current, New: next, Confirm: confirm}
	if err := change.Validate(); err != nil {
		return err
	}

	token := a.store.Snapshot().Token
	if token == "" {
		return ErrNotSignedIn
	}

	if err := a.client.ChangePassword(ctx, token, change); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("current password is incorrect: %w", err)
		}
		return fmt.Errorf("change password: %w", err)
	}

	a.log.Info(ctx, "password changed")
	a.Logout(ctx)
	return nil
}
