package domain

import "errors"

// Expected failure modes. Handlers and the central error handler match these
// with errors.Is to pick status codes; anything else is an internal error.
var (
	// ErrInvalidCredentials covers every bad-login shape (unknown email,
	// wrong password) so responses never reveal which field was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken surfaces the storage layer's unique-index violation.
	ErrEmailTaken = errors.New("email already registered")

	ErrPrincipalNotFound = errors.New("principal not found")
	ErrUnknownRole       = errors.New("unknown role")

	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")

	ErrForbidden = errors.New("insufficient role")

	ErrStoreUnavailable = errors.New("principal store unavailable")
	ErrCacheUnavailable = errors.New("revocation cache unavailable")
)
