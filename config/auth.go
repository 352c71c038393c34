package config

import (
	"strings"
	"time"
)

// AuthAPIConfig describes the upstream auth endpoints the UI proxies login,
// signup, and logout through.
type AuthAPIConfig struct {
	// BaseURL is the root of the expense tracker API (e.g., "https://api.example.com/api").
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:5000/api"`

	LoginPath  string `env:"LOGIN_PATH"  envDefault:"/auth/login"`
	SignupPath string `env:"SIGNUP_PATH" envDefault:"/auth/signup"`
	LogoutPath string `env:"LOGOUT_PATH" envDefault:"/auth/logout"`

	// Timeout bounds every upstream request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// TokenPath is a JMESPath expression locating the session token in a login response.
	TokenPath string `env:"TOKEN_PATH" envDefault:"token"`

	// MessagePath is a JMESPath expression locating a human-readable message in error responses.
	MessagePath string `env:"MESSAGE_PATH" envDefault:"message"`
}

// Sanitize applies guardrails to auth API configuration values.
func (c *AuthAPIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.LoginPath = normalizePath(c.LoginPath, "/auth/login")
	c.SignupPath = normalizePath(c.SignupPath, "/auth/signup")
	c.LogoutPath = normalizePath(c.LogoutPath, "/auth/logout")

	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Timeout > time.Minute {
		c.Timeout = time.Minute
	}

	if c.TokenPath = strings.TrimSpace(c.TokenPath); c.TokenPath == "" {
		c.TokenPath = "token"
	}
	if c.MessagePath = strings.TrimSpace(c.MessagePath); c.MessagePath == "" {
		c.MessagePath = "message"
	}
}

func normalizePath(p, fallback string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return fallback
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// SessionConfig controls the session cookie and server-side session lifetime.
type SessionConfig struct {
	// CookieName is the browser cookie carrying the opaque session ID.
	CookieName string `env:"COOKIE_NAME" envDefault:"session_id"`

	// TTL is the session lifetime used when the upstream token carries no expiry.
	TTL time.Duration `env:"TTL" envDefault:"24h"`

	// KeyPrefix namespaces session records in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"expensetracker:session:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.CookieName = strings.TrimSpace(c.CookieName); c.CookieName == "" {
		c.CookieName = "session_id"
	}
	if c.TTL < time.Minute {
		c.TTL = time.Minute
	}
	if c.TTL > 30*24*time.Hour {
		c.TTL = 30 * 24 * time.Hour
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "expensetracker:session:"
	}
}
