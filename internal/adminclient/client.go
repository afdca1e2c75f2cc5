// Package adminclient is the admin editor's view of the session: it tracks
// whether the operator is logged in and talks to the content API on their
// behalf.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/mehmetcc/nursery/internal/content"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrSessionEnded       = errors.New("session ended, log in again")
)

// APIError is a non-auth failure reported by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// ProjectInput is the body of a project create or update.
type ProjectInput struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Category     string   `json:"category"`
	PlantSpecies []string `json:"plantSpecies"`
	Featured     bool     `json:"featured"`
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.timeout = d }
}

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger

	// calls serializes session-affecting requests so the last response wins.
	calls sync.Mutex

	mu       sync.RWMutex
	state    State
	projects []content.Project
}

func New(baseURL string, logger *zap.Logger, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		timeout: defaultTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		// copy so a shared client such as http.DefaultClient is left alone
		hc := *c.http
		hc.Jar = jar
		c.http = &hc
	}
	return c, nil
}

func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) Screen() Screen {
	return ScreenFor(c.State())
}

// Projects returns the most recently loaded project list.
func (c *Client) Projects() []content.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]content.Project(nil), c.projects...)
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != s {
		c.logger.Debug("session state changed", zap.Stringer("from", c.state), zap.Stringer("to", s))
	}
	c.state = s
	if s != StateLoggedIn {
		c.projects = nil
	}
}

// Start asks the server whether the stored cookie is still a session. Any
// failure, including a timeout, lands in StateLoggedOut.
func (c *Client) Start(ctx context.Context) State {
	c.calls.Lock()
	defer c.calls.Unlock()

	c.setState(StateUnknown)

	var res struct {
		LoggedIn bool `json:"loggedIn"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/check-auth", nil, &res); err != nil || !res.LoggedIn {
		if err != nil {
			c.logger.Warn("check-auth failed", zap.Error(err))
		}
		c.setState(StateLoggedOut)
		return StateLoggedOut
	}

	c.setState(StateLoggedIn)
	if err := c.loadProjects(ctx); err != nil {
		c.logger.Warn("failed to load projects", zap.Error(err))
	}
	return c.State()
}

func (c *Client) Login(ctx context.Context, password string) error {
	c.calls.Lock()
	defer c.calls.Unlock()

	err := c.call(ctx, http.MethodPost, "/api/login", map[string]string{"password": password}, nil)
	if err != nil {
		c.setState(StateLoggedOut)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return ErrInvalidCredentials
		}
		if errors.Is(err, ErrSessionEnded) {
			return ErrInvalidCredentials
		}
		return err
	}

	c.setState(StateLoggedIn)
	if err := c.loadProjects(ctx); err != nil {
		c.logger.Warn("failed to load projects", zap.Error(err))
	}
	return nil
}

// Logout always ends in StateLoggedOut; the returned error only reports
// whether the server acknowledged it.
func (c *Client) Logout(ctx context.Context) error {
	c.calls.Lock()
	defer c.calls.Unlock()

	err := c.call(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.setState(StateLoggedOut)
	return err
}

func (c *Client) LoadProjects(ctx context.Context) error {
	c.calls.Lock()
	defer c.calls.Unlock()
	return c.loadProjects(ctx)
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (*content.Project, error) {
	c.calls.Lock()
	defer c.calls.Unlock()

	var p content.Project
	if err := c.authed(ctx, http.MethodPost, "/api/projects", in, &p); err != nil {
		return nil, err
	}
	c.upsert(p)
	return &p, nil
}

func (c *Client) UpdateProject(ctx context.Context, projectID string, in ProjectInput) (*content.Project, error) {
	c.calls.Lock()
	defer c.calls.Unlock()

	var p content.Project
	if err := c.authed(ctx, http.MethodPut, "/api/projects/"+projectID, in, &p); err != nil {
		return nil, err
	}
	c.upsert(p)
	return &p, nil
}

func (c *Client) loadProjects(ctx context.Context) error {
	var projects []content.Project
	if err := c.authed(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return err
	}
	c.mu.Lock()
	c.projects = projects
	c.mu.Unlock()
	return nil
}

func (c *Client) upsert(p content.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.projects {
		if c.projects[i].ID == p.ID {
			c.projects[i] = p
			return
		}
	}
	c.projects = append([]content.Project{p}, c.projects...)
}

// authed performs a call that needs the session; a 401 or 403 ends it.
func (c *Client) authed(ctx context.Context, method, path string, body, out any) error {
	err := c.call(ctx, method, path, body, out)
	if errors.Is(err, ErrSessionEnded) {
		c.setState(StateLoggedOut)
	}
	return err
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

// call sends one request bounded by the client timeout. Data envelopes are
// unwrapped into out; bare bodies are decoded as is.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	switch {
	case res.StatusCode == http.StatusUnauthorized && path != "/api/login",
		res.StatusCode == http.StatusForbidden:
		return ErrSessionEnded
	case res.StatusCode >= 300:
		return &APIError{Status: res.StatusCode, Code: env.Code, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if env.Success != nil && env.Data != nil {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

// SplitSpecies turns comma separated input into a trimmed list without blanks.
func SplitSpecies(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
