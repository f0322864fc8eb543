// Command beacon runs the volunteer matching and notification service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/volunteerhub/beacon/internal/adapters/http/api"
	"github.com/volunteerhub/beacon/internal/adapters/noticestore"
	"github.com/volunteerhub/beacon/internal/adapters/repository"
	"github.com/volunteerhub/beacon/internal/app"
	"github.com/volunteerhub/beacon/internal/config"
	"github.com/volunteerhub/beacon/pkg/logger"
	"github.com/volunteerhub/beacon/pkg/metrics"
)

// HTTP server timeout constants. WriteTimeout stays unset because SSE
// sessions outlive any fixed deadline.
const (
	readTimeout           = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	root := &cobra.Command{
		Use:   "beacon",
		Short: "Volunteer matching and real-time notification service",
	}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	root.AddCommand(serve)
	// Bare invocation serves as well.
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// Disable default Go metrics collection to avoid duplicate metrics.
	// We collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return err
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return err
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Catalog backends, optionally seeded from a YAML fixture.
	directory := repository.NewMemoryDirectory()
	catalog := repository.NewMemoryCatalog()
	if cfg.SeedFile != "" {
		if err := repository.LoadSeed(cfg.SeedFile, directory, catalog); err != nil {
			log.Error(ctx, "failed to load seed file",
				logger.String("path", cfg.SeedFile), logger.Error(err))
			return err
		}
		log.Info(ctx, "seed file loaded", logger.String("path", cfg.SeedFile))
	}

	// Notice backend per configuration.
	var notices noticestore.Store
	switch cfg.NoticeStore {
	case "pebble":
		ps, err := noticestore.OpenPebble(cfg.PebbleDir)
		if err != nil {
			log.Error(ctx, "failed to open pebble notice store",
				logger.String("dir", cfg.PebbleDir), logger.Error(err))
			return err
		}
		notices = ps
	default:
		notices = noticestore.NewMemoryStore()
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithWeights(cfg.Weights()),
		app.WithStreamBuffer(cfg.StreamBuffer),
		app.WithMaxTopN(cfg.MaxTopN),
		app.WithDirectory(directory),
		app.WithCatalog(catalog),
		app.WithNoticeStore(notices),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return err
	}
	defer func() {
		if err := svc.Stop(context.Background()); err != nil {
			log.Error(context.Background(), "service stop failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater refreshes process-level gauges on a timer.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
