package auth

import (
	"errors"

	"github.com/mehmetcc/nursery/internal/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	errMissingToken = errors.New("no session token")
)

// denialReason is a log-only classification of a rejected session.
func denialReason(err error) string {
	switch {
	case errors.Is(err, errMissingToken):
		return "missing"
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrForbidden):
		return "not_admin"
	default:
		return "unknown"
	}
}
