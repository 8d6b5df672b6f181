package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/menuup/internal/client/api"
	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var (
	errLoginFailed    = errors.New("login failed")
	errRegisterFailed = errors.New("registration failed")
)

// Register prompts for name, e-mail and password and creates an account.
// The user is not signed in afterwards.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.auth.Register(ctx, name, email, string(password)) {
		a.printf("Registration failed. Check the fields and try again.\n")
		return errRegisterFailed
	}

	a.printf("Account created. You can now log in.\n")
	return nil
}

// Login prompts for credentials and signs in. On success the navigation
// guard switches the root to the home screen, which announces the user.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.auth.Login(ctx, email, string(password)) {
		a.printf("Login failed. Check your email and password.\n")
		return errLoginFailed
	}
	return nil
}

// Logout ends the session locally even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	return nil
}

// ChangePassword asks for the current password and the new one twice. On
// success the session ends and the user signs in again.
func (a *App) ChangePassword(ctx context.Context) error {
	prompts := []string{"Current password", "New password", "Confirm new password"}
	values := make([][]byte, 0, len(prompts))
	defer func() {
		for _, v := range values {
			common.WipeByteArray(v)
		}
	}()

	for _, p := range prompts {
		v, err := getPassword(a.reader, p, a.out)
		if err != nil {
			return err
		}
		values = append(values, v)
	}

	err := a.auth.ChangePassword(ctx, string(values[0]), string(values[1]), string(values[2]))
	switch {
	case err == nil:
		a.printf("Password changed. Please sign in with the new password.\n")
	case errors.Is(err, models.ErrValidation):
		a.printf("%s\n", err)
	case errors.Is(err, api.ErrUnauthorized):
		a.printf("Current password is incorrect.\n")
	default:
		a.printf("Could not change the password: %s\n", err)
	}
	return err
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.store.Snapshot().User
	if u == nil {
		a.printf("Not signed in.\n")
		return nil
	}
	a.printf("%s <%s> (id %s)\n", u.DisplayName(), u.Email, u.ID)
	return nil
}
