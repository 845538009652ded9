package service

import "errors"

// Error taxonomy shared by every operation. Handlers map these to HTTP statuses with
// errors.Is; anything else that escapes a service is a bug.
var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("user already exists")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrAccountBlocked     = errors.New("your account is blocked, please contact support")
	ErrForbidden          = errors.New("forbidden: user does not have permission for this action")
	ErrNotFound           = errors.New("user not found")
	ErrStoreFailure       = errors.New("store failure")
)
