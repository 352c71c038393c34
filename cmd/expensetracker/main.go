package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/expensetracker/web/config"
	"github.com/expensetracker/web/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.DevLogger(&cfg, logger)

	if err = bootstrap.ValidateConfig(&cfg); err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	infra, err := bootstrap.InitInfrastructure(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	return bootstrap.Run(ctx, bootstrap.RunConfig{
		Config: &cfg,
		Infra:  infra,
		Logger: logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting expensetracker web",
		"addr", cfg.HTTP.Addr,
		"auth_api", cfg.AuthAPI.BaseURL,
		"session_store", sessionStoreName(cfg),
		"metrics", cfg.Observability.Metrics.IsEnabled(),
		"dev", cfg.IsDev)
}

func sessionStoreName(cfg *config.AppConfig) string {
	if cfg.Redis.Enabled() {
		return "redis"
	}
	return "memory"
}
