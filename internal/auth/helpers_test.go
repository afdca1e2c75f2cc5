package auth

import (
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"github.com/mehmetcc/nursery/internal/config"
	"github.com/mehmetcc/nursery/internal/session"
	"github.com/mehmetcc/nursery/internal/token"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct horse"

type fixture struct {
	cfg       *config.AuthConfig
	now       time.Time
	codec     token.Codec
	service   AuthService
	transport session.Transport
	gate      *Gate
	handler   AuthenticationHandler
}

func (f *fixture) clock() time.Time { return f.now }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	f := &fixture{
		cfg: &config.AuthConfig{
			JWTSecret:         "test-secret",
			JWTIssuer:         "nursery-test",
			AdminPasswordHash: string(hash),
			SessionTTL:        10 * time.Minute,
			BearerTTL:         15 * time.Minute,
		},
		now: time.Now().UTC(),
	}
	logger := zaptest.NewLogger(t)

	verifier, err := NewVerifier(f.cfg)
	require.NoError(t, err)
	f.codec = token.NewCodec(f.cfg, logger, token.WithClock(f.clock))
	f.service = NewAuthenticationService(verifier, f.codec, f.cfg, logger)
	f.transport = session.NewCookieTransport(&config.CookieConfig{Name: "token"})
	f.gate = NewGate(f.service, f.transport, logger)
	f.handler = NewAuthenticationHandler(f.service, f.gate, f.transport, f.cfg, logger)
	return f
}

func (f *fixture) mint(t *testing.T, admin bool) string {
	t.Helper()
	minted, err := f.codec.Mint(token.Claim{IsAdmin: admin}, token.Profile{Name: token.ProfileSession, TTL: f.cfg.SessionTTL})
	require.NoError(t, err)
	return minted.Token
}

func withCookie(r *http.Request, value string) *http.Request {
	r.AddCookie(&http.Cookie{Name: "token", Value: value})
	return r
}

func newJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return jar
}
