// Command barqctl runs the BARQ/BULLET dispatch engine: order assignment,
// fleet rebalancing, and route enhancement, wired the way the teacher's
// cmd/server/main.go wires its HTTP server, replacing cobra's single
// Execute() entrypoint for the teacher's bare main().
package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/barqfleet/dispatch-core/internal/config"
	"github.com/barqfleet/dispatch-core/internal/engine"
	"github.com/barqfleet/dispatch-core/internal/geo"
	"github.com/barqfleet/dispatch-core/internal/grid"
	"github.com/barqfleet/dispatch-core/internal/routing"
	"github.com/barqfleet/dispatch-core/internal/store/postgres"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "barqctl",
	Short: "Operate the BARQ/BULLET last-mile dispatch engine",
}

func main() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory to search for barqctl.yaml")
	rootCmd.AddCommand(serveCmd, assignCmd, rebalanceCmd, topCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if cfg.Log.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	} else {
		log = zerolog.New(os.Stdout)
	}
	return log.Level(level).With().Timestamp().Logger()
}

func engineConfig(cfg *config.Config) engine.Config {
	var areas []routing.RestrictedArea
	for _, a := range cfg.RestrictedAreas {
		poly := make(geo.Polygon, 0, len(a.Polygon))
		for _, pt := range a.Polygon {
			poly = append(poly, geo.Point{Lat: pt.Lat, Lng: pt.Lng})
		}
		areas = append(areas, routing.RestrictedArea{Name: a.Name, Polygon: poly})
	}

	return engine.Config{
		GridRows: cfg.Grid.Rows,
		GridCols: cfg.Grid.Cols,
		BoundingBox: geo.BoundingBox{
			MinLat: cfg.Grid.MinLat,
			MaxLat: cfg.Grid.MaxLat,
			MinLng: cfg.Grid.MinLng,
			MaxLng: cfg.Grid.MaxLng,
		},
		Thresholds: grid.Thresholds{
			MinBarq:   cfg.Coverage.BARQ.MinDriversPerGrid,
			MaxBarq:   cfg.Coverage.BARQ.MaxDriversPerGrid,
			MinBullet: cfg.Coverage.BULLET.MinDriversPerGrid,
			MaxBullet: cfg.Coverage.BULLET.MaxDriversPerGrid,
		},
		IdleTimeThreshold: int(cfg.Triggers.IdleTimeThreshold.Seconds()),
		RestrictedAreas:   areas,
	}
}

// cellLocator builds a standalone point-to-cell lookup from config, usable
// before an engine.Engine exists (the postgres store needs one at
// construction time, for PendingOrdersByCell).
func cellLocator(cfg *config.Config) func(geo.Point) (string, bool) {
	bbox := geo.BoundingBox{MinLat: cfg.Grid.MinLat, MaxLat: cfg.Grid.MaxLat, MinLng: cfg.Grid.MinLng, MaxLng: cfg.Grid.MaxLng}
	rows, cols := cfg.Grid.Rows, cfg.Grid.Cols
	return func(p geo.Point) (string, bool) {
		row, col, ok := bbox.CellOf(p, rows, cols)
		if !ok {
			return "", false
		}
		return grid.CellID(row, col), true
	}
}

func loadConfigOrExit() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "barqctl: load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func dbOpenOrExit(dsn string, log zerolog.Logger) (*sql.DB, error) {
	db, err := postgres.Open(dsn)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		return nil, err
	}
	return db, nil
}
