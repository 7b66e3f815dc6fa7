package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, int64(100000), cfg.UnassignedPenalty)
	assert.Equal(t, int64(100), cfg.SpanCostCoefficient)
	assert.Equal(t, 30.0, cfg.AvgSpeedKmh)
	assert.Equal(t, int64(30), cfg.TimeSlackMinutes)
	assert.Equal(t, int64(1440), cfg.MaxRouteTimeMinutes)
	assert.Equal(t, int64(100_000_000), cfg.MaxRouteDistanceMeters)
	require.NoError(t, cfg.validate())
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	body := "unassigned_penalty: 50000\navg_speed_kmh: 45\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), cfg.UnassignedPenalty)
	assert.Equal(t, 45.0, cfg.AvgSpeedKmh)
	// Unset fields keep their defaults.
	assert.Equal(t, int64(100), cfg.SpanCostCoefficient)
	assert.Equal(t, int64(1440), cfg.MaxRouteTimeMinutes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("avg_speed_kmh: -5\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "avg_speed_kmh")
}
