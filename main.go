// Command labelpress serves the label design app-proxy: it generates
// candidate artwork, runs the finishing pipeline, and returns print-ready
// label images.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"labelpress/internal/config"
	"labelpress/internal/generator"
	"labelpress/internal/label"
	"labelpress/internal/pipeline"
	"labelpress/internal/server"
	"labelpress/internal/version"
)

func main() {
	log := newLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config failed")
	}

	if cfg.StyleFile != "" {
		style, err := label.LoadFromFile(cfg.StyleFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.StyleFile).Msg("style file failed")
		}
		label.Register(style)
		log.Info().Str("style", style.Name()).Msg("registered custom bottle style")
	}

	runner := pipeline.NewRunner(pipeline.Config{
		DPI:            cfg.DPI,
		TrimThreshold:  cfg.TrimThreshold,
		RingWidth:      cfg.RingWidth,
		WhiteThreshold: cfg.WhiteThreshold,
		RatioTolerance: cfg.RatioTolerance,
		Workers:        cfg.Workers,
		Timeout:        cfg.PipelineTimeout,
	}, log)

	var gen server.ImageGenerator
	if cfg.OpenAIKey != "" {
		gen = generator.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.ImageModel)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, generate endpoint disabled")
	}

	srv := server.New(cfg, runner, gen, log)
	log.Info().
		Str("address", cfg.Address).
		Str("version", version.Version).
		Int("dpi", cfg.DPI).
		Msg("starting")
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// newLogger configures zerolog with a human-friendly console writer.
func newLogger() zerolog.Logger {
	cw := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stdout
		w.TimeFormat = time.RFC3339
	})
	return zerolog.New(cw).With().Timestamp().Logger()
}
