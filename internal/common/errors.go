package common

import "errors"

var (
	// Token errors shared by the backend stand-in and local token checks.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrorNotFound is returned by lookups that found nothing.
	ErrorNotFound = errors.New("not found")
)
