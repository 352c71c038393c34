// Package authapi is the HTTP adapter for the upstream expense tracker auth endpoints.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/expensetracker/web/internal/domain/auth"
	"github.com/expensetracker/web/internal/ports"
)

const maxResponseBytes = 1 << 20

var _ ports.AuthAPI = (*Client)(nil)

// ErrMissingToken is returned when a successful login response carries no token.
var ErrMissingToken = errors.New("login response did not contain a token")

// Options configures Client.
type Options struct {
	BaseURL     string
	LoginPath   string
	SignupPath  string
	LogoutPath  string
	Timeout     time.Duration
	TokenPath   string
	MessagePath string

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the upstream auth API over HTTP with JSON bodies.
type Client struct {
	http        *http.Client
	baseURL     string
	loginPath   string
	signupPath  string
	logoutPath  string
	tokenExpr   string
	messageExpr string
	logger      *slog.Logger
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("auth api base URL is required")
	}

	tokenExpr := defaultString(opts.TokenPath, "token")
	messageExpr := defaultString(opts.MessagePath, "message")
	for _, expr := range []string{tokenExpr, messageExpr} {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("compile jmespath %q: %w", expr, err)
		}
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http:        hc,
		baseURL:     base,
		loginPath:   defaultString(opts.LoginPath, "/auth/login"),
		signupPath:  defaultString(opts.SignupPath, "/auth/signup"),
		logoutPath:  defaultString(opts.LogoutPath, "/auth/logout"),
		tokenExpr:   tokenExpr,
		messageExpr: messageExpr,
		logger:      logger.With("component", "authapi"),
	}, nil
}

// Login posts {email, password} and extracts the token from the response.
func (c *Client) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Token, error) {
	body, err := c.do(ctx, c.loginPath, "", creds)
	if err != nil {
		return domainauth.Token{}, err
	}

	value, err := c.searchString(c.tokenExpr, body)
	if err != nil {
		return domainauth.Token{}, fmt.Errorf("extract token: %w", err)
	}
	if value == "" {
		return domainauth.Token{}, ErrMissingToken
	}

	return domainauth.Token{Value: value, ExpiresAt: tokenExpiry(value)}, nil
}

// Signup posts {name, email, password}.
func (c *Client) Signup(ctx context.Context, req domainauth.SignupRequest) error {
	_, err := c.do(ctx, c.signupPath, "", req)
	return err
}

// Logout posts to the logout endpoint with the token as a bearer credential.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, c.logoutPath, token, struct{}{})
	return err
}

// do sends a JSON POST and returns the decoded response body. Non-2xx
// statuses become *ports.APIError.
func (c *Client) do(ctx context.Context, path, bearer string, payload any) (any, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.DebugContext(ctx, "auth api call",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	decoded := decodeBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &ports.APIError{Status: resp.StatusCode}
		if msg, searchErr := c.searchString(c.messageExpr, decoded); searchErr == nil {
			apiErr.Message = msg
		}
		return nil, apiErr
	}

	return decoded, nil
}

// searchString evaluates expr against data and returns a string result.
// A missing or non-string result yields "".
func (c *Client) searchString(expr string, data any) (string, error) {
	if data == nil {
		return "", nil
	}
	result, err := jmespath.Search(expr, data)
	if err != nil {
		return "", err
	}
	s, _ := result.(string)
	return strings.TrimSpace(s), nil
}

func decodeBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func defaultString(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
