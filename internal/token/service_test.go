package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/nursery/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func authConfig(secret string) *config.AuthConfig {
	return &config.AuthConfig{JWTSecret: secret, JWTIssuer: "nursery-test"}
}

var (
	sessionProfile = Profile{Name: ProfileSession, TTL: 10 * time.Minute}
	bearerProfile  = Profile{Name: ProfileBearer, TTL: 15 * time.Minute}
)

func TestMintVerify_RoundTrip(t *testing.T) {
	clock := newFakeClock()
	c := NewCodec(authConfig("s3cret"), zaptest.NewLogger(t), WithClock(clock.Now))

	for _, p := range []Profile{sessionProfile, bearerProfile, {Name: "short", TTL: 2 * time.Second}} {
		t.Run(p.Name, func(t *testing.T) {
			minted, err := c.Mint(Claim{IsAdmin: true}, p)
			require.NoError(t, err)
			assert.True(t, clock.Now().Add(p.TTL).Equal(minted.ExpiresAt))

			claims, err := c.Verify(minted.Token)
			require.NoError(t, err)
			assert.True(t, claims.Admin)
			assert.Equal(t, "nursery-test", claims.Issuer)
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestMint_ProfilesHaveDistinctExpiry(t *testing.T) {
	clock := newFakeClock()
	c := NewCodec(authConfig("s3cret"), zaptest.NewLogger(t), WithClock(clock.Now))

	s, err := c.Mint(Claim{IsAdmin: true}, sessionProfile)
	require.NoError(t, err)
	b, err := c.Mint(Claim{IsAdmin: true}, bearerProfile)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, b.ExpiresAt.Sub(s.ExpiresAt))
}

func TestMint_RejectsNonPositiveTTL(t *testing.T) {
	c := NewCodec(authConfig("s3cret"), zaptest.NewLogger(t))
	_, err := c.Mint(Claim{IsAdmin: true}, Profile{Name: "broken"})
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	clock := newFakeClock()
	c := NewCodec(authConfig("s3cret"), zaptest.NewLogger(t), WithClock(clock.Now))

	minted, err := c.Mint(Claim{IsAdmin: true}, sessionProfile)
	require.NoError(t, err)

	clock.Advance(sessionProfile.TTL - time.Second)
	_, err = c.Verify(minted.Token)
	require.NoError(t, err, "still valid one second before expiry")

	clock.Advance(2 * time.Second)
	_, err = c.Verify(minted.Token)
	assert.True(t, errors.Is(err, ErrExpired), "got %v", err)
	assert.False(t, errors.Is(err, ErrMalformedToken))
}

func TestVerify_AlteredSignatureIsMalformed(t *testing.T) {
	clock := newFakeClock()
	c := NewCodec(authConfig("s3cret"), zaptest.NewLogger(t), WithClock(clock.Now))

	minted, err := c.Mint(Claim{IsAdmin: true}, sessionProfile)
	require.NoError(t, err)

	parts := strings.Split(minted.Token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := strings.Join([]string{parts[0], parts[1], string(sig)}, ".")

	_, err = c.Verify(tampered)
	assert.True(t, errors.Is(err, ErrMalformedToken), "before expiry: %v", err)

	clock.Advance(time.Hour)
	_, err = c.Verify(tampered)
	assert.True(t, errors.Is(err, ErrMalformedToken), "after expiry: %v", err)
	assert.False(t, errors.Is(err, ErrExpired))
}

func TestVerify_Malformed(t *testing.T) {
	clock := newFakeClock()
	c := NewCodec(authConfig("s3cret"), zaptest.NewLogger(t), WithClock(clock.Now))
	other := NewCodec(authConfig("another-secret"), zaptest.NewLogger(t), WithClock(clock.Now))

	foreign, err := other.Mint(Claim{IsAdmin: true}, sessionProfile)
	require.NoError(t, err)

	otherIssuer := NewCodec(&config.AuthConfig{JWTSecret: "s3cret", JWTIssuer: "someone-else"}, zaptest.NewLogger(t), WithClock(clock.Now))
	wrongIss, err := otherIssuer.Mint(Claim{IsAdmin: true}, sessionProfile)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "nursery-test",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Admin:            true,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "nursery-test"},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"two segments":   "a.b",
		"foreign secret": foreign.Token,
		"wrong issuer":   wrongIss.Token,
		"alg none":       unsigned,
		"no expiry":      noExpiry,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.Verify(tok)
			assert.True(t, errors.Is(err, ErrMalformedToken), "got %v", err)
		})
	}
}

func TestVerify_NonAdminClaimDecodes(t *testing.T) {
	c := NewCodec(authConfig("s3cret"), zaptest.NewLogger(t))

	minted, err := c.Mint(Claim{IsAdmin: false}, sessionProfile)
	require.NoError(t, err)

	claims, err := c.Verify(minted.Token)
	require.NoError(t, err)
	assert.False(t, claims.Admin)
}

func TestMint_TokensAreUnique(t *testing.T) {
	c := NewCodec(authConfig("s3cret"), zaptest.NewLogger(t))

	a, err := c.Mint(Claim{IsAdmin: true}, sessionProfile)
	require.NoError(t, err)
	b, err := c.Mint(Claim{IsAdmin: true}, sessionProfile)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}
