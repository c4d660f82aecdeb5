package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"opml-gardener/internal/config"
	hhttp "opml-gardener/internal/handler/http"
	hfeeds "opml-gardener/internal/handler/http/feeds"
	"opml-gardener/internal/handler/http/requestid"
	"opml-gardener/internal/infra/prober"
	"opml-gardener/internal/observability/logging"
	sessUC "opml-gardener/internal/usecase/session"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	p := prober.New(cfg.ProberSettings(), logger)
	svc := sessUC.New(p, logger)

	version := getVersion()
	handler := setupServer(cfg, svc, version, logger)

	scheduler := startRevalidation(cfg, svc, logger)
	runServer(cfg, handler, version, logger, scheduler)
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer builds the route mux and wraps it in the middleware chain.
func setupServer(cfg *config.Config, svc *sessUC.Session, version string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	hfeeds.Register(mux, svc)

	mux.Handle("GET    /healthz", &hhttp.HealthHandler{Svc: svc, Version: version})
	mux.Handle("GET    /livez", hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	rl := hhttp.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	// Outermost first. The liveness check runs as long as its own probe
	// budget allows, so it is exempt from the request timeout.
	return hhttp.Chain(mux,
		hhttp.CORS(cfg.Server.CORSOrigins),
		requestid.Middleware,
		hhttp.ContextLogger(logger),
		rl.Limit,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(cfg.Server.MaxBodyBytes),
		hhttp.Timeout(cfg.Server.RequestTimeout, "/validate"),
		hhttp.MetricsMiddleware,
	)
}

// startRevalidation schedules periodic liveness checks when a cron
// expression is configured. Returns nil when disabled.
func startRevalidation(cfg *config.Config, svc *sessUC.Session, logger *slog.Logger) *cron.Cron {
	if cfg.RevalidateSchedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.RevalidateSchedule, func() {
		sum, err := svc.ValidateFeeds(context.Background(), nil)
		if err != nil {
			logger.Error("scheduled liveness check failed", slog.Any("error", err))
			return
		}
		logger.Info("scheduled liveness check finished",
			slog.Int("checked", sum.Checked),
			slog.Int("valid", sum.Valid),
			slog.Int("invalid", sum.Invalid))
	})
	if err != nil {
		logger.Error("invalid revalidation schedule",
			slog.String("schedule", cfg.RevalidateSchedule),
			slog.Any("error", err))
		os.Exit(1)
	}

	c.Start()
	logger.Info("periodic revalidation scheduled",
		slog.String("schedule", cfg.RevalidateSchedule))
	return c
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(cfg *config.Config, handler http.Handler, version string, logger *slog.Logger, scheduler *cron.Cron) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	if scheduler != nil {
		// Wait for an in-flight scheduled check to finish.
		<-scheduler.Stop().Done()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
