// Package server exposes the label finishing pipeline behind the Shopify
// app-proxy HTTP surface.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"labelpress/internal/config"
	"labelpress/internal/pipeline"
	"labelpress/internal/raster"
	"labelpress/internal/uploader"
)

// ImageGenerator produces candidate artwork for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, n int) ([]raster.ImageBuffer, error)
}

// Server wires the HTTP surface to the pipeline and its collaborators.
type Server struct {
	echo     *echo.Echo
	cfg      config.Config
	runner   *pipeline.Runner
	gen      ImageGenerator
	uploader uploader.Uploader
	log      zerolog.Logger
}

// New builds the server. gen may be nil when no generator credentials are
// configured; the generate endpoint then answers 503.
func New(cfg config.Config, runner *pipeline.Runner, gen ImageGenerator, log zerolog.Logger) *Server {
	s := &Server{
		echo:     echo.New(),
		cfg:      cfg,
		runner:   runner,
		gen:      gen,
		uploader: &uploader.PresignedPut{},
		log:      log,
	}

	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(requestLogger(log))

	s.echo.GET("/healthz", s.handleHealth)

	proxy := s.echo.Group("/proxy", VerifyProxySignature(cfg.ProxySecret))
	proxy.POST("/labels/generate", s.handleGenerate)
	proxy.POST("/labels/finish", s.handleFinish)
	proxy.POST("/labels/validate-upload", s.handleValidateUpload)

	return s
}

// Start begins serving on the configured address, blocking until shutdown.
func (s *Server) Start() error {
	return s.echo.Start(s.cfg.Address)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	})
}
