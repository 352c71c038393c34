package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"fmt"

	domainauth "github.com/expensetracker/web/internal/domain/auth"
	apperrors "github.com/expensetracker/web/internal/errors"
)

// ErrSessionNotFound is returned by SessionStore.Get for unknown or expired IDs.
var ErrSessionNotFound = apperrors.NotFound("session not found")

// APIError is a non-2xx response from the upstream API.
type APIError struct {
	Status int
	// Message is the upstream's human-readable explanation, if it sent one.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth api: status %d", e.Status)
	}
	return fmt.Sprintf("auth api: status %d: %s", e.Status, e.Message)
}

// AuthAPI is the upstream expense tracker auth backend.
type AuthAPI interface {
	// Login exchanges credentials for a token.
	Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Token, error)

	// Signup registers a new account. It does not log the user in.
	Signup(ctx context.Context, req domainauth.SignupRequest) error

	// Logout revokes token upstream.
	Logout(ctx context.Context, token string) error
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
