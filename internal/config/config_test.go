package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"labelpress/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Address)
	require.Equal(t, 300, cfg.DPI)
	require.Equal(t, 2.0, cfg.BleedMm)
	require.Equal(t, 0.25, cfg.RatioTolerance)
	require.Equal(t, 5.0, cfg.AbsoluteToleranceMm)
	require.Equal(t, uint8(12), cfg.TrimThreshold)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, 60*time.Second, cfg.PipelineTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LABEL_DPI", "600")
	t.Setenv("LABEL_BLEED_MM", "3")
	t.Setenv("PIPELINE_WORKERS", "8")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 600, cfg.DPI)
	require.Equal(t, 3.0, cfg.BleedMm)
	require.Equal(t, 8, cfg.Workers)
}

func TestLenientDPI(t *testing.T) {
	// Non-numeric and non-positive densities fall back to the default
	// instead of failing boot.
	for _, bad := range []string{"banana", "", "-10", "0"} {
		t.Setenv("LABEL_DPI", bad)
		cfg, err := config.Load()
		require.NoError(t, err, "LABEL_DPI=%q", bad)
		require.Equal(t, 300, cfg.DPI, "LABEL_DPI=%q", bad)
	}
}
