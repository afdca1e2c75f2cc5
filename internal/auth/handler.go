package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mehmetcc/nursery/internal/config"
	"github.com/mehmetcc/nursery/internal/httpx"
	"github.com/mehmetcc/nursery/internal/session"
	"go.uber.org/zap"
)

type AuthenticationHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	AdminLogin(w http.ResponseWriter, r *http.Request)
	CheckAuth(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Register(r chi.Router)
	Routes() chi.Router
}

type authenticationHandler struct {
	logger      *zap.Logger
	authService AuthService
	gate        *Gate
	transport   session.Transport
	rateLimit   int
}

func NewAuthenticationHandler(authService AuthService, gate *Gate, transport session.Transport, cfg *config.AuthConfig, l *zap.Logger) AuthenticationHandler {
	return &authenticationHandler{
		logger:      l,
		authService: authService,
		gate:        gate,
		transport:   transport,
		rateLimit:   cfg.LoginRateLimit,
	}
}

// Register adds the session routes; the server mounts them under /api.
func (a *authenticationHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if a.rateLimit > 0 {
			r.Use(httpx.RateLimitByIP(a.rateLimit, time.Minute))
		}
		r.Post("/login", a.Login)
		r.Post("/admin-login", a.AdminLogin)
	})
	r.Get("/check-auth", a.CheckAuth)
	r.Post("/logout", a.Logout)
}

func (a *authenticationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	a.Register(r)
	return r
}

func (a *authenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var req loginRequest
	if !httpx.DecodeJSON(w, r, &req, a.logger) {
		return
	}

	minted, err := a.authService.Login(ctx, req.Password)
	if err != nil {
		a.writeLoginError(w, r, err)
		return
	}

	a.transport.Attach(w, minted.Token, minted.Profile.TTL)
	a.logger.Info("admin logged in", httpx.MetaFromRequest(r).Fields()...)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{Success: true})
}

// AdminLogin is the legacy bearer flow: the token goes in the body and no
// cookie is set.
func (a *authenticationHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var req loginRequest
	if !httpx.DecodeJSON(w, r, &req, a.logger) {
		return
	}

	minted, err := a.authService.IssueBearer(ctx, req.Password)
	if err != nil {
		a.writeLoginError(w, r, err)
		return
	}

	a.logger.Info("admin bearer token issued", httpx.MetaFromRequest(r).Fields()...)
	httpx.WriteJSON(w, http.StatusOK, bearerResponse{Token: minted.Token})
}

// CheckAuth never fails: any problem with the session reads as logged out.
func (a *authenticationHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	_, err := a.gate.Check(r)
	if err != nil {
		a.logger.Debug("check-auth negative", zap.String("reason", denialReason(err)))
	}
	httpx.WriteJSON(w, http.StatusOK, checkAuthResponse{LoggedIn: err == nil})
}

// Logout clears the cookie whether or not a session was present.
func (a *authenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	a.transport.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{Success: true})
}

func (a *authenticationHandler) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		a.logger.Warn("admin login rejected", httpx.MetaFromRequest(r).Fields()...)
		httpx.Fail(w, http.StatusUnauthorized, httpx.ErrInvalidCredentials, "Invalid password")
	default:
		a.logger.Error("admin login failed", zap.Error(err))
		httpx.Fail(w, http.StatusInternalServerError, httpx.ErrInternal, "internal server error")
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool `json:"success"`
}

type bearerResponse struct {
	Token string `json:"token"`
}

type checkAuthResponse struct {
	LoggedIn bool `json:"loggedIn"`
}
