// Package models defines the client-side data model of the MenuUp client:
// the signed-in user, session snapshots and recipes as the backend
// exchanges them.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrValidation marks input rejected before any network call.
var ErrValidation = errors.New("validation error")

// UserID accepts both numeric and string ids from the backend.
type UserID string

func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = UserID(n.String())
	return nil
}

// User is the profile returned by /auth/login. Field names follow the
// backend's JSON ("nome" is the display name).
type User struct {
	ID    UserID `json:"id"`
	Email string `json:"email"`
	Name  string `json:"nome"`
}

// Valid reports whether u carries the fields a session needs.
func (u *User) Valid() bool {
	return u != nil && u.ID != "" && u.Email != ""
}

// DisplayName falls back to the e-mail when no name is known.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
