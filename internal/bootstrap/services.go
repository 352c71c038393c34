package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/expensetracker/web/config"
	"github.com/expensetracker/web/internal/observability/statsd"
)

// shutdownWaitTimeout is the maximum time to wait for in-flight requests on shutdown.
const shutdownWaitTimeout = 15 * time.Second

// Infrastructure holds the connections shared by the running server.
type Infrastructure struct {
	Redis   redis.UniversalClient
	Metrics *statsd.Client
}

// InitInfrastructure connects Redis when configured and builds the metrics sink.
func InitInfrastructure(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{Metrics: BuildMetrics(cfg.Observability.Metrics, logger)}

	if !cfg.Redis.Enabled() {
		return infra, nil
	}
	client, err := ConnectRedis(ctx, RedisConfig{Redis: cfg.Redis, Logger: logger})
	if err != nil {
		if cerr := infra.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	infra.Redis = client
	return infra, nil
}

// Close releases every connection, reporting all failures.
func (i *Infrastructure) Close() error {
	if i == nil {
		return nil
	}
	var errs []error
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := i.Metrics.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close statsd: %w", err))
	}
	return errors.Join(errs...)
}

// RunConfig holds everything Run needs.
type RunConfig struct {
	Config *config.AppConfig
	Infra  *Infrastructure
	Logger *slog.Logger
}

// Run serves HTTP until SIGINT/SIGTERM or a server failure, then drains
// in-flight requests.
func Run(ctx context.Context, cfg RunConfig) error {
	if cfg.Config == nil {
		return errors.New("run config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	infra := cfg.Infra
	if infra == nil {
		infra = &Infrastructure{}
	}

	auth, err := BuildAuthService(AuthConfig{
		AuthAPI:     cfg.Config.AuthAPI,
		Session:     cfg.Config.Session,
		RedisClient: infra.Redis,
		Metrics:     infra.Metrics,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	server, err := NewHTTPServer(HTTPServerConfig{Config: cfg.Config, Auth: auth, Logger: logger})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := func(ctx context.Context) error {
		return ShutdownHTTPServer(ShutdownConfig{Context: ctx, Server: server, Logger: logger})
	}
	return waitForShutdown(sigCtx, shutdownConfig{
		serve:    func() error { return ServeHTTP(server, logger) },
		shutdown: shutdown,
		logger:   logger,
	})
}

var errStoppedUnexpectedly = errors.New("http server stopped without a shutdown request")

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	serve    func() error
	shutdown func(ctx context.Context) error
	logger   *slog.Logger
}

// waitForShutdown runs serve until ctx is done or serve fails, then calls
// shutdown exactly once. A serve failure is returned in preference to a
// shutdown failure.
func waitForShutdown(ctx context.Context, cfg shutdownConfig) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := cfg.serve(); err != nil {
			cfg.logger.Error("service error", "error", err)
			return err
		}
		if gctx.Err() == nil {
			return errStoppedUnexpectedly
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		cfg.logger.Info("shutting down services...")
		if err := cfg.shutdown(gctx); err != nil {
			return fmt.Errorf("graceful stop: %w", err)
		}
		return nil
	})

	return g.Wait()
}
