package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-records/internal/config"
	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/handler/appointment"
	"github.com/jwalitptl/clinic-records/internal/handler/dashboard"
	"github.com/jwalitptl/clinic-records/internal/handler/health"
	"github.com/jwalitptl/clinic-records/internal/handler/patient"
	"github.com/jwalitptl/clinic-records/internal/handler/professional"
	promhandler "github.com/jwalitptl/clinic-records/internal/handler/prometheus"
	"github.com/jwalitptl/clinic-records/internal/handler/record"
	reporthandler "github.com/jwalitptl/clinic-records/internal/handler/report"
	sessionhandler "github.com/jwalitptl/clinic-records/internal/handler/session"
	"github.com/jwalitptl/clinic-records/internal/middleware"
	"github.com/jwalitptl/clinic-records/internal/report"
	"github.com/jwalitptl/clinic-records/internal/repository/postgres"
	"github.com/jwalitptl/clinic-records/internal/router"
	"github.com/jwalitptl/clinic-records/internal/scope"
	"github.com/jwalitptl/clinic-records/internal/session"
	"github.com/jwalitptl/clinic-records/pkg/auth"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/messaging"
	"github.com/jwalitptl/clinic-records/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is required to serve")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, newLogger(cfg))
		},
	}
}

func newBroker(ctx context.Context, cfg *config.Config, log *logger.Logger) (messaging.Broker, error) {
	if cfg.Redis.URL == "" {
		log.Info("no redis url configured, change events stay in process")
		return messaging.NewMemoryBroker(), nil
	}
	return redis.NewRedisBroker(ctx, redis.Config{
		URL:              cfg.Redis.URL,
		MaxRetries:       cfg.Redis.MaxRetries,
		RetryBackoff:     cfg.Redis.RetryBackoff,
		PoolSize:         cfg.Redis.PoolSize,
		FailureThreshold: cfg.Redis.FailureThreshold,
		OpenTimeout:      cfg.Redis.OpenTimeout,
	}, log)
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("clinic", registry)

	broker, err := newBroker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer broker.Close()

	repos := postgres.NewRepositories(db)
	clinics := postgres.NewClinicRepository(db)
	resolver := scope.NewResolver(postgres.NewProfileRepository(db), clinics, log)
	sessions := session.NewManager(session.Config{
		TTL:             cfg.Session.TTL,
		CleanupInterval: cfg.Session.CleanupInterval,
		InitTimeout:     cfg.Session.InitTimeout,
		Channel:         cfg.Redis.Channel,
	}, resolver, repos, broker, log, m)
	if err := sessions.Listen(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to change events: %w", err)
	}

	loc := cfg.Location()
	base := handler.NewBaseHandler(loc)
	authMiddleware := middleware.NewAuthMiddleware(auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Leeway), sessions)

	r := router.NewRouter(
		log,
		authMiddleware,
		health.NewHandler(db),
		promhandler.New(registry, m),
		router.RouterConfig{
			Mode:        cfg.Server.Mode,
			RateEnabled: cfg.RateLimit.Enabled,
			RateLimit:   rate.Limit(cfg.RateLimit.RPS),
			RateBurst:   cfg.RateLimit.Burst,
			CORSConfig:  middleware.DefaultCORSConfig(cfg.Server.AllowOrigins),
		},
		sessionhandler.NewHandler(base, sessions, clinics),
		patient.NewHandler(base),
		professional.NewHandler(base),
		appointment.NewHandler(base),
		record.NewHandler(base),
		dashboard.NewHandler(base),
		reporthandler.NewHandler(base, report.NewBuilder(loc), m),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
