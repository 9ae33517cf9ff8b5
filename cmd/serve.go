package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/okian/portfolio/internal/adapters/http/api"
	"github.com/okian/portfolio/internal/adapters/http/site"
	"github.com/okian/portfolio/internal/adapters/ratelimit"
	service "github.com/okian/portfolio/internal/app"
	"github.com/okian/portfolio/internal/config"
	"github.com/okian/portfolio/pkg/logger"
	"github.com/okian/portfolio/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// run loads configuration, binds the listener and serves until ctx is done.
func run(ctx context.Context, out io.Writer, opts ...config.LoadOption) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env -> flags)
	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	printBanner(out, bannerInfo{
		URL:            fmt.Sprintf("http://localhost:%d", listenPort(ln, cfg.Port)),
		Environment:    cfg.Environment,
		RuntimeVersion: runtime.Version(),
		StartedAt:      svc.StartedAt(),
	})

	if cfg.MetricsEnabled {
		go startSystemMetricsUpdater(ctx, svc)
	}

	return serve(ctx, ln, newHTTPServer(cfg, svc, log), log)
}

func newService(cfg *config.Config, log logger.Logger) *service.Service {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithEnvironment(cfg.Environment, cfg.IsProduction()),
		service.WithContactDelay(cfg.ContactDelay()),
	}
	if cfg.ContactRateLimit > 0 {
		opts = append(opts, service.WithContactLimiter(ratelimit.New(cfg.ContactRateLimit, cfg.ContactRateWindow())))
	}
	return service.New(opts...)
}

func newHTTPServer(cfg *config.Config, svc *service.Service, log logger.Logger) *http.Server {
	apiServer := api.NewServer(svc,
		api.WithLogger(log),
		api.WithSite(site.FS(cfg.StaticDir)),
		api.WithMetrics(cfg.MetricsEnabled),
		api.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	return &http.Server{
		Handler:     apiServer.Handler(),
		ReadTimeout: readTimeout,
		// The contact endpoint holds the response for the configured delay.
		WriteTimeout:      writeTimeout + cfg.ContactDelay(),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// serve runs srv on ln until ctx is cancelled. Shutdown does not drain:
// open connections are closed immediately.
func serve(ctx context.Context, ln net.Listener, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "Đang tắt server...")
		if err := srv.Close(); err != nil {
			log.Error(context.Background(), "server close failed", logger.Error(err))
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	}
}

func listenPort(ln net.Listener, fallback int) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return fallback
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics(svc)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics(svc)
		}
	}
}

// updateSystemMetrics updates process-level metrics.
func updateSystemMetrics(svc *service.Service) {
	metrics.UpdateUptime(svc.Uptime())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
