// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config holds every tunable the service reads at boot.
type Config struct {
	Address string `env:"ADDRESS" envDefault:":8080"`

	// Raster density for composition. Parsed leniently: unset or
	// non-numeric values fall back to the default instead of failing boot.
	DPI int `env:"-"`

	BleedMm             float64       `env:"LABEL_BLEED_MM" envDefault:"2"`
	RatioTolerance      float64       `env:"LABEL_RATIO_TOLERANCE" envDefault:"0.25"`
	AbsoluteToleranceMm float64       `env:"LABEL_ABS_TOLERANCE_MM" envDefault:"5"`
	TrimThreshold       uint8         `env:"LABEL_TRIM_THRESHOLD" envDefault:"12"`
	RingWidth           int           `env:"LABEL_RING_WIDTH" envDefault:"1"`
	WhiteThreshold      uint8         `env:"LABEL_WHITE_THRESHOLD" envDefault:"245"`
	Workers             int           `env:"PIPELINE_WORKERS" envDefault:"4"`
	PipelineTimeout     time.Duration `env:"PIPELINE_TIMEOUT" envDefault:"60s"`

	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	ImageModel    string `env:"IMAGE_MODEL" envDefault:"gpt-image-1"`

	// ProxySecret signs Shopify app-proxy requests. Empty disables
	// signature checks (local development only).
	ProxySecret string `env:"SHOPIFY_PROXY_SECRET"`

	// StyleFile optionally adds bottle styles from a JSON file on top of
	// the built-in registry.
	StyleFile string `env:"LABEL_STYLE_FILE"`
}

const defaultDPI = 300

// Load reads .env if present and parses the environment into Config.
func Load() (Config, error) {
	// Load .env if available; ignore error if file does not exist
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DPI = lenientInt("LABEL_DPI", defaultDPI)
	return cfg, nil
}

// lenientInt reads a positive integer from the environment, falling back
// to def on unset, non-numeric, or non-positive values.
func lenientInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
