package auth

// Package auth contains domain-level types for credentials, sessions, and
// password feedback. It is pure and free of framework/adapter concerns.

import "time"

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the signup form payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the opaque credential the upstream API issues on login.
// ExpiresAt is zero when the upstream does not advertise an expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Session is the server-side record behind the session cookie. Its presence is
// what the UI treats as "logged in"; the token itself is never parsed for that.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
