package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/expensetracker/web/config"
	"github.com/expensetracker/web/internal/adapters/authapi"
	"github.com/expensetracker/web/internal/adapters/memory"
	redisadapter "github.com/expensetracker/web/internal/adapters/redis"
	httpx "github.com/expensetracker/web/internal/http"
	"github.com/expensetracker/web/internal/observability/statsd"
	"github.com/expensetracker/web/internal/ports"
	"github.com/expensetracker/web/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	AuthAPI config.AuthAPIConfig
	Session config.SessionConfig
	// RedisClient backs sessions when set; nil selects the in-memory store.
	RedisClient redis.UniversalClient
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// AuthBundle is the auth service plus the readiness probe of its session store.
type AuthBundle struct {
	Service *service.AuthService
	Ready   httpx.ReadinessCheck
}

// BuildAuthService wires the upstream API client and session store into an
// AuthService.
func BuildAuthService(cfg AuthConfig) (AuthBundle, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api, err := authapi.NewClient(authapi.Options{
		BaseURL:     cfg.AuthAPI.BaseURL,
		LoginPath:   cfg.AuthAPI.LoginPath,
		SignupPath:  cfg.AuthAPI.SignupPath,
		LogoutPath:  cfg.AuthAPI.LogoutPath,
		Timeout:     cfg.AuthAPI.Timeout,
		TokenPath:   cfg.AuthAPI.TokenPath,
		MessagePath: cfg.AuthAPI.MessagePath,
		Logger:      logger,
	})
	if err != nil {
		return AuthBundle{}, fmt.Errorf("build auth api client: %w", err)
	}

	sessions, ready := buildSessionStore(cfg, logger)

	svc := service.NewAuthService(service.AuthServiceOptions{
		API:           api,
		Sessions:      sessions,
		Metrics:       cfg.Metrics,
		Logger:        logger,
		SessionTTL:    cfg.Session.TTL,
		FlightTimeout: cfg.AuthAPI.Timeout,
	})
	return AuthBundle{Service: svc, Ready: ready}, nil
}

//nolint:ireturn // callers only need the port.
func buildSessionStore(cfg AuthConfig, logger *slog.Logger) (ports.SessionStore, httpx.ReadinessCheck) {
	if cfg.RedisClient == nil {
		logger.Warn("redis not configured; sessions are kept in memory and lost on restart")
		return memory.NewSessionStore(), nil
	}

	client := cfg.RedisClient
	ready := func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(errors.New("session store unreachable"), err)
		}
		return nil
	}
	return redisadapter.NewSessionStore(client, cfg.Session.KeyPrefix), ready
}

// BuildMetrics returns the StatsD sink. Metrics are best effort: a dial failure
// is logged and a disabled client is returned.
func BuildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) *statsd.Client {
	client, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		disabled, _ := statsd.NewClient(statsd.Config{Logger: logger})
		return disabled
	}
	return client
}
