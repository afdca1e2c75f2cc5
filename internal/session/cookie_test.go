package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mehmetcc/nursery/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestAttach_Attributes(t *testing.T) {
	tests := []struct {
		name   string
		secure bool
	}{
		{name: "development", secure: false},
		{name: "production", secure: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewCookieTransport(&config.CookieConfig{Name: "token", Secure: tt.secure})
			rec := httptest.NewRecorder()
			tr.Attach(rec, "abc.def.ghi", 10*time.Minute)

			c := singleCookie(t, rec)
			assert.Equal(t, "token", c.Name)
			assert.Equal(t, "abc.def.ghi", c.Value)
			assert.Equal(t, "/", c.Path)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, tt.secure, c.Secure)
			assert.Equal(t, 600, c.MaxAge)
			assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=600")
		})
	}
}

func TestExtract(t *testing.T) {
	tr := NewCookieTransport(&config.CookieConfig{Name: "token"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := tr.Extract(req)
	assert.False(t, ok, "no cookie")

	req.AddCookie(&http.Cookie{Name: "other", Value: "x"})
	_, ok = tr.Extract(req)
	assert.False(t, ok, "unrelated cookie")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "opaque"})
	got, ok := tr.Extract(req)
	assert.True(t, ok)
	assert.Equal(t, "opaque", got)
}

func TestClear_MatchesAttachPolicy(t *testing.T) {
	tr := NewCookieTransport(&config.CookieConfig{Name: "token", Secure: true})
	rec := httptest.NewRecorder()
	tr.Clear(rec)

	c := singleCookie(t, rec)
	assert.Equal(t, "token", c.Name)
	assert.Empty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, "/", c.Path)
	assert.Less(t, c.MaxAge, 0)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestDefaultCookieName(t *testing.T) {
	tr := NewCookieTransport(&config.CookieConfig{})
	rec := httptest.NewRecorder()
	tr.Attach(rec, "v", time.Minute)
	assert.Equal(t, "token", singleCookie(t, rec).Name)
}
