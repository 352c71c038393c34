package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/expensetracker/web/internal/domain/auth"
	apperrors "github.com/expensetracker/web/internal/errors"
	"github.com/expensetracker/web/internal/observability/metrics"
	"github.com/expensetracker/web/internal/observability/statsd"
	"github.com/expensetracker/web/internal/ports"
)

// User-facing fallbacks when the upstream API gives no message.
const (
	MsgLoginFailed   = "Login failed. Please check your credentials."
	MsgSignupFailed  = "Signup failed. Please try again."
	MsgSignupSuccess = "Account created successfully! Please login."
)

const (
	defaultSessionTTL    = 24 * time.Hour
	defaultFlightTimeout = 30 * time.Second
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API      ports.AuthAPI
	Sessions ports.SessionStore
	Metrics  statsd.Sink
	Logger   *slog.Logger

	// SessionTTL caps session lifetime; tokens with an earlier exp shorten it.
	SessionTTL time.Duration

	// FlightTimeout bounds a shared upstream call once it is detached from
	// the request that started it.
	FlightTimeout time.Duration

	// Now overrides the clock in tests.
	Now func() time.Time
}

// AuthService orchestrates login, signup, and logout against the upstream API
// and keeps the server-side session that backs the browser cookie.
type AuthService struct {
	api      ports.AuthAPI
	sessions ports.SessionStore
	metrics  statsd.Sink
	logger   *slog.Logger
	ttl      time.Duration
	flight   time.Duration
	now      func() time.Time

	// inflight collapses double-submitted forms into one upstream call.
	inflight singleflight.Group
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	flight := opts.FlightTimeout
	if flight <= 0 {
		flight = defaultFlightTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		api:      opts.API,
		sessions: opts.Sessions,
		metrics:  opts.Metrics,
		logger:   logger.With("component", "auth_service"),
		ttl:      ttl,
		flight:   flight,
		now:      now,
	}
}

// Login authenticates upstream and persists a new session. Identical
// concurrent submissions share one upstream call and one session.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials) (*domainauth.Session, error) {
	start := s.now()
	creds.Email = strings.TrimSpace(creds.Email)

	v, err := s.share(ctx, flightKey("login", creds.Email, creds.Password), MsgLoginFailed,
		func(fctx context.Context) (any, error) {
			return s.login(fctx, creds)
		})
	s.emit(metrics.ActionLogin, start, err)
	if err != nil {
		return nil, err
	}

	sess, ok := v.(domainauth.Session)
	if !ok {
		return nil, apperrors.Internal("unexpected login result")
	}
	return &sess, nil
}

func (s *AuthService) login(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	token, err := s.api.Login(ctx, creds)
	if err != nil {
		return domainauth.Session{}, upstreamError(err, MsgLoginFailed)
	}

	sess := domainauth.Session{
		ID:        generateSessionID(),
		Token:     token.Value,
		Email:     creds.Email,
		ExpiresAt: s.sessionExpiry(token),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, MsgLoginFailed)
	}
	return sess, nil
}

// Signup validates the request locally and registers it upstream. Invalid
// requests never reach the API.
func (s *AuthService) Signup(ctx context.Context, req domainauth.SignupRequest) error {
	start := s.now()

	if err := req.Validate(); err != nil {
		s.emit(metrics.ActionSignup, start, err)
		return err
	}
	req.Email = strings.TrimSpace(req.Email)

	_, err := s.share(ctx, flightKey("signup", req.Email, req.Password, req.Name), MsgSignupFailed,
		func(fctx context.Context) (any, error) {
			if apiErr := s.api.Signup(fctx, req); apiErr != nil {
				return nil, upstreamError(apiErr, MsgSignupFailed)
			}
			return nil, nil
		})
	s.emit(metrics.ActionSignup, start, err)
	return err
}

// Logout revokes the token upstream and removes the session. The upstream
// call is best effort: its failure is logged and the local session is still
// removed so the browser always ends up logged out.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	start := s.now()

	sess, err := s.sessions.Get(ctx, sessionID)
	switch {
	case err == nil:
		if apiErr := s.api.Logout(ctx, sess.Token); apiErr != nil {
			s.logger.WarnContext(ctx, "upstream logout failed", "error", apiErr)
		}
	case apperrors.IsNotFound(err):
	default:
		s.logger.WarnContext(ctx, "load session for logout", "error", err)
	}

	if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
		wrapped := apperrors.Wrap(delErr, apperrors.ErrCodeInternal, "delete session")
		s.emit(metrics.ActionLogout, start, wrapped)
		return wrapped
	}

	s.emit(metrics.ActionLogout, start, nil)
	return nil
}

// GetSession returns the live session for sessionID, or a NotFound error.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, ports.ErrSessionNotFound
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Expired(s.now()) {
		if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
			return nil, errors.Join(ports.ErrSessionNotFound, delErr)
		}
		return nil, ports.ErrSessionNotFound
	}

	return &sess, nil
}

// share runs fn once per key across concurrent callers. The shared call is
// detached from any single caller's cancellation and bounded by the flight
// timeout; each caller still stops waiting when its own ctx ends.
func (s *AuthService) share(
	ctx context.Context,
	key, fallback string,
	fn func(context.Context) (any, error),
) (any, error) {
	ch := s.inflight.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.flight)
		defer cancel()
		return fn(fctx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, apperrors.Wrap(ctx.Err(), apperrors.GetCode(ctx.Err()), fallback)
	}
}

// sessionExpiry is now+ttl, shortened to the token's own expiry when that is sooner.
func (s *AuthService) sessionExpiry(token domainauth.Token) time.Time {
	now := s.now()
	exp := now.Add(s.ttl)
	if token.ExpiresAt.After(now) && token.ExpiresAt.Before(exp) {
		return token.ExpiresAt
	}
	return exp
}

func (s *AuthService) emit(action string, start time.Time, err error) {
	metrics.EmitAuthOutcome(s.metrics, metrics.AuthMetric{
		Action:   action,
		Result:   metrics.ResultFor(err),
		Duration: s.now().Sub(start),
		Err:      err,
	})
}

// upstreamError classifies an AuthAPI failure and attaches a user-safe message:
// the API's own message when it sent one, otherwise fallback.
func upstreamError(err error, fallback string) error {
	code := apperrors.ErrCodeUpstream
	msg := fallback

	var apiErr *ports.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
			code = apperrors.ErrCodeUnauthorized
		case apiErr.Status >= 400 && apiErr.Status < 500:
			code = apperrors.ErrCodeValidation
		}
		if apiErr.Message != "" {
			msg = apiErr.Message
		}
	} else if c := apperrors.GetCode(err); c == apperrors.ErrCodeTimeout || c == apperrors.ErrCodeCanceled {
		code = c
	}

	return apperrors.Wrap(err, code, msg)
}

// flightKey identifies a submission without keeping the password in memory
// longer than the call itself. Extra fields, such as the signup name, must
// match too for two submissions to share a call.
func flightKey(action, email, password string, extra ...string) string {
	parts := append([]string{strings.ToLower(email), password}, extra...)
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return action + ":" + hex.EncodeToString(sum[:])
}

// generateSessionID creates a random, URL-safe session ID.
func generateSessionID() string {
	return uuid.NewString()
}
