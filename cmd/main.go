package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"

	"github.com/okian/copa/internal/adapters/http/api"
	"github.com/okian/copa/internal/adapters/http/swagger"
	"github.com/okian/copa/internal/adapters/repository"
	app "github.com/okian/copa/internal/app"
	"github.com/okian/copa/internal/config"
	"github.com/okian/copa/pkg/logger"
	"github.com/okian/copa/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger format depends on config, so it isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// config.Load lower-cases and validates log_level, so this cannot fail.
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Named("main")

	metrics.Init(metricsOptions(cfg)...)

	src, err := newSource(cfg)
	if err != nil {
		log.Fatal(ctx, "record source unavailable", logger.Error(err))
	}

	svc := app.New(
		app.WithLogger(logger.Named("service")),
		app.WithSource(src),
		app.WithDefaultScorerLimit(cfg.DefaultScorerLimit),
	)
	if err := svc.Start(ctx); err != nil {
		if errors.Is(err, repository.ErrDataUnavailable) {
			log.Fatal(ctx, "required data unavailable; refusing to serve", logger.Error(err))
		}
		log.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// metricsOptions maps the metrics_* settings onto the metrics manager.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithConstLabels(cfg.MetricsLabels),
		metrics.WithLatencyBuckets(cfg.MetricsLatencyBuckets),
	}
}

// newSource builds the record source selected by cfg.Source.
func newSource(cfg *config.Config) (repository.Source, error) {
	switch cfg.Source {
	case config.SourceSQLite:
		return repository.NewSQLiteSource(cfg.SQLitePath)
	case config.SourceCSV:
		return repository.NewCSVSource(cfg.DataDir,
			repository.WithFileNames(cfg.TournamentsFile, cfg.MatchesFile, cfg.PlayersFile),
		), nil
	default:
		return nil, errors.Mark(errors.Newf("unknown source %q", cfg.Source), config.ErrInvalidConfig)
	}
}

// newHandler registers the API and docs routes and applies CORS.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	router := mux.NewRouter()

	swagger.Register(ctx, router)

	apiServer := api.NewServer(svc, svc, cfg.MaxScorerLimit)
	apiServer.Register(ctx, router)

	return api.CORS(router, cfg.CORSAllowedOrigins)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average pause over the process lifetime
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
