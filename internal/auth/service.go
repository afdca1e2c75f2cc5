package auth

import (
	"context"
	"fmt"

	"github.com/mehmetcc/nursery/internal/config"
	"github.com/mehmetcc/nursery/internal/token"
	"go.uber.org/zap"
)

type AuthService interface {
	// Login mints a cookie session token.
	Login(ctx context.Context, password string) (*token.Minted, error)
	// IssueBearer mints a token for the legacy bearer flow.
	IssueBearer(ctx context.Context, password string) (*token.Minted, error)
	// Authorize returns the claims of a valid admin token, or an error
	// wrapping ErrUnauthorized or ErrForbidden.
	Authorize(tokenString string) (*token.Claims, error)
}

type authService struct {
	verifier       Verifier
	codec          token.Codec
	sessionProfile token.Profile
	bearerProfile  token.Profile
	logger         *zap.Logger
}

func NewAuthenticationService(verifier Verifier, codec token.Codec, cfg *config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{
		verifier:       verifier,
		codec:          codec,
		sessionProfile: token.Profile{Name: token.ProfileSession, TTL: cfg.SessionTTL},
		bearerProfile:  token.Profile{Name: token.ProfileBearer, TTL: cfg.BearerTTL},
		logger:         logger,
	}
}

func (a *authService) Login(ctx context.Context, password string) (*token.Minted, error) {
	return a.issue(ctx, password, a.sessionProfile)
}

func (a *authService) IssueBearer(ctx context.Context, password string) (*token.Minted, error) {
	return a.issue(ctx, password, a.bearerProfile)
}

func (a *authService) issue(ctx context.Context, password string, profile token.Profile) (*token.Minted, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !a.verifier.Verify(password) {
		return nil, ErrInvalidCredentials
	}
	minted, err := a.codec.Mint(token.Claim{IsAdmin: true}, profile)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("admin token issued",
		zap.String("profile", profile.Name),
		zap.Time("expires_at", minted.ExpiresAt),
	)
	return minted, nil
}

func (a *authService) Authorize(tokenString string) (*token.Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, errMissingToken)
	}
	claims, err := a.codec.Verify(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if !claims.Admin {
		return nil, ErrForbidden
	}
	return claims, nil
}
