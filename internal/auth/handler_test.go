package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func tokenCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatal("no token cookie in response")
	return nil
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	t.Run("correct password sets session cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handler.Login(rec, jsonRequest(http.MethodPost, "/api/login", `{"password":"`+testPassword+`"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"success": true}, decode(t, rec))

		c := tokenCookie(t, rec)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, 600, c.MaxAge)

		claims, err := f.codec.Verify(c.Value)
		require.NoError(t, err)
		assert.True(t, claims.Admin)
		assert.WithinDuration(t, f.now.Add(10*time.Minute), claims.ExpiresAt.Time, time.Second)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handler.Login(rec, jsonRequest(http.MethodPost, "/api/login", `{"password":"nope"}`))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "invalid_credentials", body["code"])
		assert.NotEmpty(t, body["message"])
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("missing password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handler.Login(rec, jsonRequest(http.MethodPost, "/api/login", `{}`))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("password=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		f.handler.Login(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestAdminLogin_BearerProfile(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.AdminLogin(rec, jsonRequest(http.MethodPost, "/api/admin-login", `{"password":"`+testPassword+`"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	body := decode(t, rec)
	tok, ok := body["token"].(string)
	require.True(t, ok)

	claims, err := f.codec.Verify(tok)
	require.NoError(t, err)
	assert.WithinDuration(t, f.now.Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)

	rec = httptest.NewRecorder()
	f.handler.AdminLogin(rec, jsonRequest(http.MethodPost, "/api/admin-login", `{"password":"bad"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["message"])
}

func TestCheckAuth(t *testing.T) {
	f := newFixture(t)
	valid := f.mint(t, true)
	notAdmin := f.mint(t, false)
	stale := f.mint(t, true)

	tests := []struct {
		name    string
		cookie  string
		advance time.Duration
		want    bool
	}{
		{name: "absent cookie"},
		{name: "malformed token", cookie: "definitely.not.valid"},
		{name: "expired token", cookie: stale, advance: time.Hour},
		{name: "non-admin token", cookie: notAdmin},
		{name: "valid admin token", cookie: valid, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := f.now
			f.now = base.Add(tt.advance)
			defer func() { f.now = base }()

			req := httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
			if tt.cookie != "" {
				withCookie(req, tt.cookie)
			}
			rec := httptest.NewRecorder()
			f.handler.CheckAuth(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, map[string]any{"loggedIn": tt.want}, decode(t, rec))
		})
	}
}

func TestLogout_WithoutSession(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true}, decode(t, rec))
	c := tokenCookie(t, rec)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
	assert.True(t, c.HttpOnly)
}

// A browser-like round trip through the mounted routes: login, check, logout, check.
func TestRoutes_SessionLifecycle(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler.Routes())
	defer srv.Close()

	client := srv.Client()
	jar := newJar(t)
	client.Jar = jar

	res, err := client.Post(srv.URL+"/login", "application/json", strings.NewReader(`{"password":"`+testPassword+`"}`))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, res.Header.Get("Set-Cookie"))

	assert.True(t, checkAuth(t, client, srv.URL))

	res, err = client.Post(srv.URL+"/logout", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	assert.False(t, checkAuth(t, client, srv.URL))
}

func checkAuth(t *testing.T, client *http.Client, base string) bool {
	t.Helper()
	res, err := client.Get(base + "/check-auth")
	require.NoError(t, err)
	defer res.Body.Close()
	var body checkAuthResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body.LoggedIn
}
