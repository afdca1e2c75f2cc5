package token

import "errors"

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrExpired        = errors.New("token expired")
)
