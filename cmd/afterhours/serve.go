package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kidcare/afterhours/internal/analytics"
	"github.com/kidcare/afterhours/internal/assessment"
	"github.com/kidcare/afterhours/internal/protocol"
	"github.com/kidcare/afterhours/internal/shared/auth"
	"github.com/kidcare/afterhours/internal/shared/config"
	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/events"
	"github.com/kidcare/afterhours/internal/shared/metrics"
	secmiddleware "github.com/kidcare/afterhours/internal/shared/middleware"
	"github.com/spf13/cobra"
)

const maxRequestBody = 1 << 20

// App holds the wired application dependencies
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Stores      *stores
	Bus         *events.Bus
	Assessments *assessment.Service
	Analytics   *analytics.Service
	Limiter     *secmiddleware.IPRateLimiter
}

func newServeCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the triage HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := env()
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	s, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	if cfg.Storage.SeedProtocols {
		if err := seedProtocols(ctx, s, logger); err != nil {
			return err
		}
	}

	var bus *events.Bus
	if cfg.KurrentDB.Enabled {
		bus, err = events.NewBus(ctx, cfg.KurrentDB)
		if err != nil {
			logger.Warn("KurrentDB not available, running without event streaming", "error", err)
			bus = nil
		} else {
			defer bus.Close()
			logger.Info("KurrentDB event stream connected", "host", cfg.KurrentDB.Host, "port", cfg.KurrentDB.Port)
		}
	}

	app := newApp(cfg, logger, s, bus)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go app.pruneLimiter(pruneCtx, time.Minute)

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		app.Assessments.Wait()
		close(done)
	}()

	logger.Info("afterhours triage service started",
		"env", cfg.Server.Env,
		"addr", srv.Addr,
		"storage", cfg.Storage.Driver,
		"kurrentdb", app.Bus != nil,
	)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("server stopped")
	return nil
}

// newApp wires the services over s. bus may be nil.
func newApp(cfg *config.Config, logger *slog.Logger, s *stores, bus *events.Bus) *App {
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Stores:  s,
		Bus:     bus,
		Limiter: secmiddleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}
	a.Analytics = analytics.NewService(s.Analytics, logger)

	opts := []assessment.Option{
		assessment.WithAnalytics(a.Analytics),
		assessment.WithUpdateTimeout(cfg.Analytics.UpdateTimeout),
	}
	if pub := a.publisher(); pub != nil {
		opts = append(opts, assessment.WithPublisher(pub))
	}
	a.Assessments = assessment.NewService(s.Assessments, s.Protocols, logger, opts...)
	return a
}

func (a *App) publisher() events.Publisher {
	if a.Bus == nil {
		return nil
	}
	return a.Bus
}

// Router builds the HTTP handler tree
func (a *App) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(secmiddleware.RequestLogger(a.Logger))
	r.Use(middleware.Recoverer)
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.CORS(secmiddleware.DefaultCORSConfig(a.Config.Server.CORSOrigins)))
	r.Use(metrics.Middleware)
	r.Use(secmiddleware.MaxBodySize(maxRequestBody))

	r.Get("/health", a.healthHandler)
	r.Get("/ready", a.readyHandler)
	r.Handle("/metrics", metrics.Handler())

	protocolHandler := protocol.NewHandler(a.Stores.Protocols, a.publisher(), a.Logger)
	assessmentHandler := assessment.NewHandler(a.Assessments)
	analyticsHandler := analytics.NewHandler(a.Analytics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/protocols", protocolHandler.Routes(
			auth.Middleware(a.Config.Auth),
			auth.RequireRoles(auth.RoleAdmin),
		))
		r.Get("/age-groups", protocolHandler.ListAgeGroups)
		r.Get("/dosage", protocolHandler.GetDosage)
		r.Get("/temperature", protocolHandler.GetTemperature)
		r.With(a.Limiter.Middleware).Post("/classify", assessmentHandler.Classify)
		r.Mount("/assessments", assessmentHandler.Routes(a.Limiter.Middleware))
		r.Mount("/analytics", analyticsHandler.Routes())
	})

	return r
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ready"}

	if err := a.Stores.Health(r.Context()); err != nil {
		checks["storage"] = "not ready: " + err.Error()
	} else {
		checks["storage"] = "ready"
	}

	if a.Bus != nil {
		if err := a.Bus.Health(); err != nil {
			checks["kurrentdb"] = "not ready: " + err.Error()
		} else {
			checks["kurrentdb"] = "ready"
		}
	} else {
		checks["kurrentdb"] = "not configured"
	}

	allReady := true
	for _, status := range checks {
		if status != "ready" && status != "not configured" {
			allReady = false
			break
		}
	}

	status := http.StatusOK
	state := "ready"
	if !allReady {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	errors.WriteJSON(w, status, map[string]any{"status": state, "checks": checks})
}

// pruneLimiter drops idle per-IP limiters until ctx is done.
func (a *App) pruneLimiter(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Limiter.Prune(); n > 0 {
				a.Logger.Debug("pruned idle rate limiters", "count", n)
			}
		}
	}
}
