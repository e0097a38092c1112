package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/alex-user-go/packages/internal/catalog"
	"github.com/alex-user-go/packages/internal/config"
	"github.com/alex-user-go/packages/internal/handler"
	"github.com/alex-user-go/packages/internal/middleware"
	"github.com/alex-user-go/packages/internal/obs"
	"github.com/alex-user-go/packages/internal/quote"
	"github.com/alex-user-go/packages/internal/search"
	"github.com/alex-user-go/packages/internal/search/cache"
	"github.com/alex-user-go/packages/internal/search/ratelimit"
)

// App holds the wired service components.
type App struct {
	metrics *obs.Metrics
	handler http.Handler
	closers []func()
}

// Run initializes and runs the application.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = config.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory cache and rate limiter", "error", err)
		} else {
			defer func() {
				_ = rdb.Close()
			}()
			logger.Info("redis connected", "addr", cfg.Redis.Addr)
		}
	}

	a := New(cfg, logger, rdb)
	defer a.Close()

	// Configure server
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      a.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "catalog", cfg.CatalogURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

// New wires the service. rdb may be nil, in which case the snapshot cache
// and the rate limiter stay in process memory.
func New(cfg config.Config, logger *slog.Logger, rdb *redis.Client) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &App{}

	// Initialize metrics
	a.metrics = obs.NewMetrics(logger)

	source := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogToken, cfg.CatalogTimeout)
	loader := search.NewLoader(source, cfg.CatalogTimeout, a.metrics, logger)

	var cacheOpts []cache.Option
	if rdb != nil {
		cacheOpts = append(cacheOpts, cache.WithStore(cache.NewRedisStore(rdb, cfg.Redis.Prefix), logger))
	}
	snapshotCache := cache.NewCache(cfg.CacheTTL, cacheOpts...)
	a.closers = append(a.closers, snapshotCache.Close)

	var limiter handler.Limiter
	if rdb != nil {
		limiter = ratelimit.NewRedis(rdb, cfg.Redis.Prefix+":ratelimit", cfg.RateLimit, cfg.RateWindow, logger)
	} else {
		memLimiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow)
		a.closers = append(a.closers, memLimiter.Close)
		limiter = memLimiter
	}

	h := handler.New(loader, snapshotCache, limiter, quote.DefaultRegistry(), a.metrics, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /packages", h.PackagesHandler)
	mux.HandleFunc("GET /packages/{id}/quote", h.QuoteHandler)
	mux.HandleFunc("GET /healthz", obs.HealthHandler(logger))
	mux.HandleFunc("GET /metrics", a.metrics.MetricsHandler())

	// Wrap with middleware
	a.handler = middleware.Logging(logger)(middleware.Recovery(logger)(mux))

	return a
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Close stops background goroutines.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}
