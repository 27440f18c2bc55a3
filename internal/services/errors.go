package services

import "errors"

// Domain errors surfaced to handlers, which map them onto HTTP statuses.
var (
	// ErrUsernameTaken reports a registration against an existing username.
	ErrUsernameTaken = errors.New("username already registered")

	// ErrInvalidCredentials covers both unknown-user and wrong-password
	// logins so the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound reports an absent resource.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner reports an existing resource owned by a different user.
	// Distinct from ErrNotFound: existence is revealed, access is not.
	ErrNotOwner = errors.New("not allowed")
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
