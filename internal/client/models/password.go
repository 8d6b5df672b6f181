package models

import "fmt"

// MinPasswordLength is the shortest new password the backend accepts.
const MinPasswordLength = 6

// PasswordChange is the body of PATCH /auth/change-password.
type PasswordChange struct {
	Current string `json:"senhaAtual"`
	New     string `json:"novaSenha"`
	Confirm string `json:"confirmarNovaSenha"`
}

func (p PasswordChange) Validate() error {
	switch {
	case p.Current == "" || p.New == "" || p.Confirm == "":
		return fmt.Errorf("%w: all password fields are required", ErrValidation)
	case len(p.New) < MinPasswordLength:
		return fmt.Errorf("%w: new password must have at least %d characters", ErrValidation, MinPasswordLength)
	case p.New != p.Confirm:
		return fmt.Errorf("%w: new password and confirmation differ", ErrValidation)
	}
	return nil
}
