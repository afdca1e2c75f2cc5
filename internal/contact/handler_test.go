package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mehmetcc/nursery/internal/httpx"
	"github.com/mehmetcc/nursery/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newRouter(t *testing.T, sender mail.Sender, limit int) http.Handler {
	r := chi.NewRouter()
	NewContactHandler(sender, limit, zaptest.NewLogger(t)).Register(r)
	return r
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmit_Sends(t *testing.T) {
	sender := &fakeSender{}
	rec := post(newRouter(t, sender, 0), `{"name":" Asha ","email":"asha@example.com","phone":"98765","message":"Need a quote"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body contactResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "Thank you! Your message has been sent.", body.Message)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Asha", sender.sent[0].Name)
	assert.Equal(t, "Need a quote", sender.sent[0].Body)
}

func TestSubmit_Validation(t *testing.T) {
	tests := map[string]string{
		"missing name":    `{"email":"a@example.com","message":"hi"}`,
		"missing email":   `{"name":"a","message":"hi"}`,
		"bad email":       `{"name":"a","email":"nope","message":"hi"}`,
		"missing message": `{"name":"a","email":"a@example.com","message":"   "}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			sender := &fakeSender{}
			rec := post(newRouter(t, sender, 0), body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), string(httpx.ErrValidationFailed))
			assert.Empty(t, sender.sent)
		})
	}
}

func TestSubmit_SendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp: 535 auth failed")}
	rec := post(newRouter(t, sender, 0), `{"name":"a","email":"a@example.com","message":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to send email")
	assert.NotContains(t, rec.Body.String(), "535")
}

func TestSubmit_RateLimited(t *testing.T) {
	h := newRouter(t, &fakeSender{}, 2)
	body := `{"name":"a","email":"a@example.com","message":"hi"}`

	assert.Equal(t, http.StatusOK, post(h, body).Code)
	assert.Equal(t, http.StatusOK, post(h, body).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(h, body).Code)
}
