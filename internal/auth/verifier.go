package auth

import (
	"errors"

	"github.com/mehmetcc/nursery/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past this length, so longer submissions are refused
// instead of being compared on their prefix.
const maxPasswordBytes = 72

// Verifier checks a submitted secret against the single configured admin secret.
type Verifier interface {
	Verify(submitted string) bool
}

type bcryptVerifier struct {
	hash []byte
}

// NewVerifier hashes ADMIN_PASSWORD once, or adopts a pre-computed
// ADMIN_PASSWORD_HASH when one is configured.
func NewVerifier(cfg *config.AuthConfig) (Verifier, error) {
	if cfg.AdminPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.AdminPasswordHash)); err != nil {
			return nil, errors.New("ADMIN_PASSWORD_HASH is not a bcrypt hash")
		}
		return &bcryptVerifier{hash: []byte(cfg.AdminPasswordHash)}, nil
	}
	if cfg.AdminPassword == "" {
		return nil, config.ErrMissingPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &bcryptVerifier{hash: hash}, nil
}

func (v *bcryptVerifier) Verify(submitted string) bool {
	if submitted == "" || len(submitted) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(submitted)) == nil
}
