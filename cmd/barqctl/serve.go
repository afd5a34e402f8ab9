package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/barqfleet/dispatch-core/internal/assignment"
	"github.com/barqfleet/dispatch-core/internal/config"
	"github.com/barqfleet/dispatch-core/internal/engine"
	"github.com/barqfleet/dispatch-core/internal/eta"
	"github.com/barqfleet/dispatch-core/internal/eta/gmaps"
	"github.com/barqfleet/dispatch-core/internal/httpserver"
	"github.com/barqfleet/dispatch-core/internal/reposition"
	"github.com/barqfleet/dispatch-core/internal/routing"
	"github.com/barqfleet/dispatch-core/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the periodic fleet rebalancer and the operational HTTP surface (healthz/readyz/coverage/history)",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfigOrExit()
	log := newLogger(cfg)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "barqctl: DATABASE_URL is required for serve")
		os.Exit(1)
	}
	db, err := postgres.Open(dsn)
	if err != nil {
		log.Error().Err(err).Msg("serve: database connection failed")
		os.Exit(1)
	}
	defer db.Close()

	eng, store, err := buildEngine(cfg, log, db)
	if err != nil {
		log.Error().Err(err).Msg("serve: build engine failed")
		os.Exit(1)
	}

	if cfg.Triggers.CheckInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Triggers.CheckInterval)
			defer ticker.Stop()
			for range ticker.C {
				eng.RunRebalanceCycle(context.Background(), store)
			}
		}()
	}

	srv := httpserver.New(httpserver.Deps{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Logger:       log,
		Coverage:     func() any { return eng.CoverageSnapshot() },
		History:      func() any { return eng.History() },
		Ready:        func() error { return db.Ping() },
	})

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("barqctl serve ready")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("serve: http server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("barqctl serve shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("serve: shutdown error")
		os.Exit(1)
	}
	log.Info().Msg("barqctl serve shutdown complete")
}

// buildEngine wires the engine's collaborators from config: Postgres for
// fleet status and pending-order counts, an OSRM-style HTTP router for
// route enhancement, Google Maps for ETA if configured, and a logging
// stand-in for the driver-dispatch collaborator (spec.md §6's external
// system boundary — replace with the real push-notification pathway in
// production).
func buildEngine(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*engine.Engine, *postgres.Store, error) {
	ecfg := engineConfig(cfg)

	store := postgres.NewStore(db, cellLocator(cfg))

	var etaService eta.Service
	if cfg.ETA.Provider == "gmaps" && cfg.ETA.GoogleMapsAPIKey != "" {
		client, err := gmaps.NewClient(cfg.ETA.GoogleMapsAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("build gmaps eta client: %w", err)
		}
		etaService = client
	}

	var router routing.Router
	if cfg.Router.BaseURL != "" {
		router = routing.NewHTTPRouter(cfg.Router.BaseURL, cfg.Router.Timeout)
	}

	deps := engine.Deps{
		Fleet:           store,
		Collaborator:    reposition.LoggingCollaborator{Log: log},
		Router:          router,
		ETAService:      etaService,
		RouteFit:        assignment.CheapestInsertionFitter{},
		RouterCacheSize: cfg.Router.CacheSize,
		Logger:          log,
	}

	eng, err := engine.New(ecfg, deps)
	if err != nil {
		return nil, nil, err
	}
	return eng, store, nil
}
