// Package contact serves the public contact form.
package contact

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mehmetcc/nursery/internal/httpx"
	"github.com/mehmetcc/nursery/internal/mail"
	"go.uber.org/zap"
)

const sentMessage = "Thank you! Your message has been sent."

type ContactHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Register(r chi.Router)
}

type contactHandler struct {
	logger    *zap.Logger
	sender    mail.Sender
	rateLimit int
	validator *validator.Validate
}

func NewContactHandler(sender mail.Sender, rateLimit int, l *zap.Logger) ContactHandler {
	return &contactHandler{
		logger:    l,
		sender:    sender,
		rateLimit: rateLimit,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *contactHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.rateLimit > 0 {
			r.Use(httpx.RateLimitByIP(h.rateLimit, time.Minute))
		}
		r.Post("/contact", h.Submit)
	})
}

func (h *contactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req contactRequest
	if !httpx.DecodeJSON(w, r, &req, h.logger) {
		return
	}
	req.trim()
	if !httpx.Validate(w, h.validator, &req, h.logger) {
		return
	}

	err := h.sender.Send(ctx, mail.Message{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Body:  req.Message,
	})
	if err != nil {
		h.logger.Error("contact mail failed", append(httpx.MetaFromRequest(r).Fields(), zap.Error(err))...)
		httpx.Fail(w, http.StatusInternalServerError, httpx.ErrInternal, "Failed to send email")
		return
	}

	h.logger.Info("contact mail sent", zap.String("from", req.Email))
	httpx.WriteJSON(w, http.StatusOK, contactResponse{Success: true, Message: sentMessage})
}

type contactRequest struct {
	Name    string `json:"name"    validate:"required,max=200"`
	Email   string `json:"email"   validate:"required,email,max=254"`
	Phone   string `json:"phone"   validate:"max=40"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (c *contactRequest) trim() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Message = strings.TrimSpace(c.Message)
}

type contactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
