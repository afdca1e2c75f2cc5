package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/nursery/internal/config"
	"go.uber.org/zap"
)

// Codec mints and verifies self-contained admin session tokens. It holds no
// mutable state and is safe for concurrent use.
type Codec interface {
	Mint(claim Claim, profile Profile) (*Minted, error)
	Verify(tokenString string) (*Claims, error)
}

type Option func(*codec)

// WithClock overrides the time source used for both minting and verification.
func WithClock(now func() time.Time) Option {
	return func(c *codec) { c.now = now }
}

type codec struct {
	logger     *zap.Logger
	secret     []byte
	issuer     string
	signingAlg jwt.SigningMethod
	now        func() time.Time
}

func NewCodec(cfg *config.AuthConfig, logger *zap.Logger, opts ...Option) Codec {
	c := &codec{
		logger:     logger,
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		signingAlg: jwt.SigningMethodHS256,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *codec) Mint(claim Claim, profile Profile) (*Minted, error) {
	if profile.TTL <= 0 {
		return nil, fmt.Errorf("token profile %q: ttl must be positive", profile.Name)
	}

	issuedAt := c.now().UTC()
	expiresAt := issuedAt.Add(profile.TTL)
	claims := &Claims{
		Admin: claim.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ID:        c.generateJTI(),
		},
	}

	signed, err := jwt.NewWithClaims(c.signingAlg, claims).SignedString(c.secret)
	if err != nil {
		c.logger.Error("failed to sign token", zap.String("profile", profile.Name), zap.Error(err))
		return nil, err
	}

	return &Minted{
		Token:     signed,
		Profile:   profile,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the signature before the expiry, so a tampered token is
// always ErrMalformedToken even when it is also past its expiry.
func (c *codec) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMalformedToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.signingAlg.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	var claims Claims
	tkn, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	switch {
	case err == nil && tkn.Valid:
		return &claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %v", ErrExpired, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	default:
		return nil, ErrMalformedToken
	}
}

func (c *codec) generateJTI() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
