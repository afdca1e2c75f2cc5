package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim is what a caller asks to be embedded in a token.
type Claim struct {
	IsAdmin bool
}

// Claims is the decoded JWT payload.
type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

const (
	ProfileSession = "session"
	ProfileBearer  = "bearer"
)

// Profile binds a call site to its token lifetime.
type Profile struct {
	Name string
	TTL  time.Duration
}

type Minted struct {
	Token     string
	Profile   Profile
	IssuedAt  time.Time
	ExpiresAt time.Time
}
