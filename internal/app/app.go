// Package app builds the bridge's dependencies and runs the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/sheetbridge/internal/api"
	"github.com/JakeFAU/sheetbridge/internal/config"
	"github.com/JakeFAU/sheetbridge/internal/id/uuid"
	"github.com/JakeFAU/sheetbridge/internal/taskservice"
	"github.com/JakeFAU/sheetbridge/internal/telemetry"
	"github.com/JakeFAU/sheetbridge/internal/upload"
)

const shutdownTimeout = 10 * time.Second

// App contains the application's dependencies.
type App struct {
	cfg            config.Config
	logger         *zap.Logger
	handler        http.Handler
	tracerShutdown func(context.Context) error
}

// Build creates the application's dependencies from cfg.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{cfg: cfg, logger: logger}
	logger.Info("building application dependencies",
		zap.Int("port", cfg.Server.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("locale", cfg.Locale),
	)

	var transport http.RoundTripper
	if cfg.Telemetry.TracingEnabled {
		tp, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			return nil, fmt.Errorf("tracer init failed: %w", err)
		}
		app.tracerShutdown = tp.Shutdown
		transport = telemetry.Transport(nil)
		logger.Info("tracing enabled", zap.String("service", cfg.Telemetry.ServiceName))
	}

	spool, err := upload.New(upload.Config{Dir: cfg.Upload.Dir}, uuid.New())
	if err != nil {
		return nil, fmt.Errorf("upload spool init failed: %w", err)
	}

	client, err := taskservice.New(taskservice.Config{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   cfg.UpstreamTimeout(),
		UserAgent: cfg.Upstream.UserAgent,
		Transport: transport,
	}, logger.Named("taskservice"))
	if err != nil {
		return nil, fmt.Errorf("task service client init failed: %w", err)
	}

	app.handler = api.NewServer(client, spool, cfg, logger.Named("api")).Handler()
	if cfg.Telemetry.TracingEnabled {
		app.handler = telemetry.Handler(app.handler, cfg.Telemetry.ServiceName)
	}
	return app, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts the HTTP server and blocks until ctx is canceled or the process
// receives SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}
	a.Close(shutdownCtx)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}

// Close releases observability resources.
func (a *App) Close(ctx context.Context) {
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}
	if err := a.logger.Sync(); err != nil {
		a.logger.Debug("logger sync failed", zap.Error(err))
	}
	a.logger.Info("shutdown complete")
}
