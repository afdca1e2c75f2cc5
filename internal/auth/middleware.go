package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mehmetcc/nursery/internal/httpx"
	"github.com/mehmetcc/nursery/internal/session"
	"github.com/mehmetcc/nursery/internal/token"
	"go.uber.org/zap"
)

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// Gate decides whether a request carries a valid admin session.
type Gate struct {
	authService AuthService
	transport   session.Transport
	logger      *zap.Logger
}

func NewGate(authService AuthService, transport session.Transport, logger *zap.Logger) *Gate {
	return &Gate{
		authService: authService,
		transport:   transport,
		logger:      logger,
	}
}

// Check extracts the session cookie and authorizes it. It has no side effects.
func (g *Gate) Check(r *http.Request) (*token.Claims, error) {
	raw, ok := g.transport.Extract(r)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, errMissingToken)
	}
	return g.authService.Authorize(raw)
}

// RequireAdmin answers 401 for a missing, malformed or expired session and 403
// for a session without the admin claim.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.Check(r)
		if err != nil {
			fields := append(httpx.MetaFromRequest(r).Fields(),
				zap.String("reason", denialReason(err)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			if errors.Is(err, ErrForbidden) {
				g.logger.Warn("admin request forbidden", fields...)
				httpx.Fail(w, http.StatusForbidden, httpx.ErrForbidden, "Forbidden")
				return
			}
			g.logger.Info("admin request unauthorized", fields...)
			httpx.Fail(w, http.StatusUnauthorized, httpx.ErrUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

func ContextWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns nil outside of RequireAdmin.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	c, _ := ctx.Value(claimsContextKey).(*token.Claims)
	return c
}
