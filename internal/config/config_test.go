package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsMatchSpecTable(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Grid.Rows)
	assert.Equal(t, 10, cfg.Grid.Cols)

	assert.Equal(t, 2, cfg.Coverage.BARQ.MinDriversPerGrid)
	assert.Equal(t, 8, cfg.Coverage.BARQ.MaxDriversPerGrid)
	assert.Equal(t, 1, cfg.Coverage.BULLET.MinDriversPerGrid)
	assert.Equal(t, 5, cfg.Coverage.BULLET.MaxDriversPerGrid)

	assert.Equal(t, 5*time.Minute, cfg.Triggers.CheckInterval)
	assert.Equal(t, 600*time.Second, cfg.Triggers.IdleTimeThreshold)

	assert.Equal(t, "http://localhost:5000", cfg.Router.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Router.Timeout)
	assert.Equal(t, 256, cfg.Router.CacheSize)

	assert.Equal(t, "fallback", cfg.ETA.Provider)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("BARQ_GRID_ROWS", "20")
	t.Setenv("BARQ_ROUTER_BASEURL", "http://osrm.internal:5000")
	t.Setenv("BARQ_ETA_PROVIDER", "gmaps")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Grid.Rows)
	assert.Equal(t, "http://osrm.internal:5000", cfg.Router.BaseURL)
	assert.Equal(t, "gmaps", cfg.ETA.Provider)
}

func TestLoad_MissingConfigFileIsNotAnError(t *testing.T) {
	_, err := Load("/nonexistent/path/for/testing")
	require.NoError(t, err)
}
