// Package session carries the admin session token between server and browser.
// It never looks inside the token.
package session

import (
	"net/http"
	"time"

	"github.com/mehmetcc/nursery/internal/config"
)

type Transport interface {
	Attach(w http.ResponseWriter, token string, ttl time.Duration)
	Extract(r *http.Request) (string, bool)
	Clear(w http.ResponseWriter)
}

type cookieTransport struct {
	name   string
	domain string
	secure bool
	now    func() time.Time
}

func NewCookieTransport(cfg *config.CookieConfig) Transport {
	name := cfg.Name
	if name == "" {
		name = "token"
	}
	return &cookieTransport{
		name:   name,
		domain: cfg.Domain,
		secure: cfg.Secure,
		now:    time.Now,
	}
}

func (c *cookieTransport) Attach(w http.ResponseWriter, token string, ttl time.Duration) {
	cookie := c.base()
	cookie.Value = token
	cookie.MaxAge = int(ttl / time.Second)
	cookie.Expires = c.now().Add(ttl).UTC()
	http.SetCookie(w, cookie)
}

func (c *cookieTransport) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Clear must repeat the attributes used by Attach or browsers keep the
// original cookie.
func (c *cookieTransport) Clear(w http.ResponseWriter) {
	cookie := c.base()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, cookie)
}

func (c *cookieTransport) base() *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
