package models

// Session is an immutable snapshot of the client's authentication state.
// User is non-nil exactly when Token is non-empty.
type Session struct {
	Token    string
	User     *User
	Hydrated bool
}

// SignedIn reports whether the snapshot carries credentials.
func (s Session) SignedIn() bool {
	return s.Token != ""
}
