package domain

import "errors"

// Stable error kinds surfaced by the account services. Handlers map these to
// HTTP status codes; messages never reveal password digests or whether some
// other account exists.
var (
	ErrInvalid        = errors.New("invalid input")
	ErrInvalidToken   = errors.New("invalid token")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")
	ErrForbidden      = errors.New("forbidden")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrDeliveryFailed = errors.New("notification delivery failed")
	ErrUnknown        = errors.New("unknown error")
)
