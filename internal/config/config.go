// Package config loads barqctl's configuration via Viper: environment
// variables under a BARQ_ prefix, with an optional YAML file backend,
// replacing the teacher's hand-rolled getEnv/getIntEnv loader with the same
// one-struct, nested-sub-struct shape.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds barqctl's options, including the supplements
// (router.cacheSize, eta.provider) SPEC_FULL.md adds. Scoring is the one
// section Load leaves at its zero value (see ScoringConfig).
type Config struct {
	Grid      GridConfig
	Coverage  CoverageConfig
	Triggers  TriggersConfig
	Scoring   ScoringConfig
	Router    RouterConfig
	ETA       ETAConfig
	Server    ServerConfig
	Log       LogConfig

	RestrictedAreas []RestrictedAreaConfig
}

// GridConfig controls grid dimensions and the serviced bounding box
// (spec.md §6: grid.rows, grid.cols; the bounding box is this module's
// supplement since the distilled spec assumes it's supplied out of band).
type GridConfig struct {
	Rows int
	Cols int

	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// RestrictedAreaPoint is one vertex of a restricted-area polygon, the shape
// Viper can unmarshal a YAML list of objects into.
type RestrictedAreaPoint struct {
	Lat float64
	Lng float64
}

// RestrictedAreaConfig is one named restricted-area polygon (spec.md §6:
// restrictedAreas: [{name, polygon}]).
type RestrictedAreaConfig struct {
	Name    string
	Polygon []RestrictedAreaPoint
}

// TierThresholds is one tier's under/over-served bounds.
type TierThresholds struct {
	MinDriversPerGrid int
	MaxDriversPerGrid int
}

// CoverageConfig controls coverage classification thresholds (spec.md §6:
// coverage.BARQ.{min,max}DriversPerGrid, coverage.BULLET.{min,max}DriversPerGrid).
type CoverageConfig struct {
	BARQ   TierThresholds
	BULLET TierThresholds
}

// TriggersConfig controls the rebalance cadence and eligibility gate
// (spec.md §6: triggers.checkInterval, triggers.idleTimeThreshold).
type TriggersConfig struct {
	CheckInterval     time.Duration
	IdleTimeThreshold time.Duration
}

// WeightSet is one tier's set of scoring weights (spec.md §6:
// scoring.weights.{BARQ,BULLET}).
type WeightSet struct {
	Proximity    float64
	Availability float64
	Performance  float64
	Capacity     float64
	Efficiency   float64
	Fatigue      float64
}

// ScoringConfig carries per-tier weight sets. Load does not read the
// scoring.weights keys and no component consumes this struct: assignment
// always scores with assignment.DefaultWeights.
type ScoringConfig struct {
	WeightsBARQ   WeightSet
	WeightsBULLET WeightSet
}

// RouterConfig configures the external routing collaborator (spec.md §6:
// router.baseUrl, router.timeout, plus the cacheSize supplement).
type RouterConfig struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
}

// ETAConfig selects the ETA collaborator implementation (SPEC_FULL.md
// supplement: eta.provider is "fallback" or "gmaps").
type ETAConfig struct {
	Provider         string
	GoogleMapsAPIKey string
}

// ServerConfig controls the barqctl serve command's operational HTTP
// surface (not a product API — liveness/readiness + coverage snapshot).
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LogConfig controls zerolog's output.
type LogConfig struct {
	Level       string
	Pretty      bool
}

// Load reads configuration via Viper: env vars prefixed BARQ_ (nested keys
// joined with underscore, e.g. BARQ_GRID_ROWS), and an optional YAML file
// named barqctl.yaml on the given search paths.
func Load(configPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BARQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("barqctl")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	setDefaults(v)

	cfg := &Config{
		Grid: GridConfig{
			Rows:   v.GetInt("grid.rows"),
			Cols:   v.GetInt("grid.cols"),
			MinLat: v.GetFloat64("grid.minlat"),
			MaxLat: v.GetFloat64("grid.maxlat"),
			MinLng: v.GetFloat64("grid.minlng"),
			MaxLng: v.GetFloat64("grid.maxlng"),
		},
		Coverage: CoverageConfig{
			BARQ: TierThresholds{
				MinDriversPerGrid: v.GetInt("coverage.barq.mindriverspergrid"),
				MaxDriversPerGrid: v.GetInt("coverage.barq.maxdriverspergrid"),
			},
			BULLET: TierThresholds{
				MinDriversPerGrid: v.GetInt("coverage.bullet.mindriverspergrid"),
				MaxDriversPerGrid: v.GetInt("coverage.bullet.maxdriverspergrid"),
			},
		},
		Triggers: TriggersConfig{
			CheckInterval:     v.GetDuration("triggers.checkinterval"),
			IdleTimeThreshold: v.GetDuration("triggers.idletimethreshold"),
		},
		Router: RouterConfig{
			BaseURL:   v.GetString("router.baseurl"),
			Timeout:   v.GetDuration("router.timeout"),
			CacheSize: v.GetInt("router.cachesize"),
		},
		ETA: ETAConfig{
			Provider:         v.GetString("eta.provider"),
			GoogleMapsAPIKey: v.GetString("eta.googlemapsapikey"),
		},
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.readtimeout"),
			WriteTimeout:    v.GetDuration("server.writetimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdowntimeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
	}

	if err := v.UnmarshalKey("restrictedareas", &cfg.RestrictedAreas); err != nil {
		return nil, fmt.Errorf("parse restrictedAreas: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grid.rows", 10)
	v.SetDefault("grid.cols", 10)
	v.SetDefault("grid.minlat", 24.60)
	v.SetDefault("grid.maxlat", 24.85)
	v.SetDefault("grid.minlng", 46.55)
	v.SetDefault("grid.maxlng", 46.85)

	v.SetDefault("coverage.barq.mindriverspergrid", 2)
	v.SetDefault("coverage.barq.maxdriverspergrid", 8)
	v.SetDefault("coverage.bullet.mindriverspergrid", 1)
	v.SetDefault("coverage.bullet.maxdriverspergrid", 5)

	v.SetDefault("triggers.checkinterval", 5*time.Minute)
	v.SetDefault("triggers.idletimethreshold", 600*time.Second)

	v.SetDefault("router.baseurl", "http://localhost:5000")
	v.SetDefault("router.timeout", 5*time.Second)
	v.SetDefault("router.cachesize", 256)

	v.SetDefault("eta.provider", "fallback")

	v.SetDefault("server.addr", ":8090")
	v.SetDefault("server.readtimeout", 5*time.Second)
	v.SetDefault("server.writetimeout", 10*time.Second)
	v.SetDefault("server.shutdowntimeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}
