package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"labelpress/internal/dimcheck"
	"labelpress/internal/label"
	"labelpress/internal/pipeline"
	"labelpress/internal/raster"
	"labelpress/internal/version"
)

type generateRequest struct {
	Prompt     string            `json:"prompt"`
	Style      string            `json:"style"`
	Sides      []string          `json:"sides"`
	Candidates int               `json:"candidates"`
	Background string            `json:"background,omitempty"`
	UploadURLs map[string]string `json:"upload_urls,omitempty"` // side -> presigned URL
	Debug      bool              `json:"debug,omitempty"`
}

type finishRequest struct {
	Images     []string `json:"images"` // data URLs or bare base64
	Style      string   `json:"style"`
	Side       string   `json:"side"`
	Background string   `json:"background,omitempty"`
	Debug      bool     `json:"debug,omitempty"`
}

type validateUploadRequest struct {
	Style    string  `json:"style"`
	Side     string  `json:"side"`
	WidthMm  float64 `json:"width_mm"`
	HeightMm float64 `json:"height_mm"`
}

type captureStage struct {
	Label string `json:"label"`
	Image string `json:"image"` // base64 PNG
}

type sideResult struct {
	Side     string                     `json:"side"`
	Image    string                     `json:"image"` // base64 PNG
	Fill     string                     `json:"fill"`
	WidthPx  int                        `json:"width_px"`
	HeightPx int                        `json:"height_px"`
	Degraded bool                       `json:"degraded,omitempty"`
	Location string                     `json:"location,omitempty"`
	Reports  []pipeline.CandidateReport `json:"reports"`
	Captures []captureStage             `json:"captures,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleGenerate(c echo.Context) error {
	if s.gen == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "image generation is not configured")
	}

	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Prompt == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "prompt is required")
	}
	sides, err := resolveSides(req.Style, req.Sides)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n := req.Candidates
	if n < 1 {
		n = 1
	}

	ctx := c.Request().Context()
	var mu sync.Mutex
	results := make([]sideResult, 0, len(sides))

	// Sides are independent: generate and finish them concurrently.
	g, ctx := errgroup.WithContext(ctx)
	for side, target := range sides {
		g.Go(func() error {
			candidates, err := s.gen.Generate(ctx, req.Prompt, n)
			if err != nil {
				return fmt.Errorf("side %s: %w", side, err)
			}

			var capture *pipeline.Capture
			if req.Debug {
				capture = pipeline.NewCapture()
			}
			res, err := s.runner.Run(ctx, pipeline.Request{
				Candidates: candidates,
				Target:     target,
				Side:       side,
				Background: req.Background,
				Capture:    capture,
			})
			if err != nil {
				return fmt.Errorf("side %s: %w", side, err)
			}

			sr := buildSideResult(res, capture)
			if dest, ok := req.UploadURLs[string(side)]; ok && dest != "" {
				location, err := s.uploader.Upload(ctx, dest, res.Label)
				if err != nil {
					return fmt.Errorf("side %s: %w", side, err)
				}
				sr.Location = location
			}

			mu.Lock()
			results = append(results, sr)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Msg("generate failed")
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{"labels": results})
}

func (s *Server) handleFinish(c echo.Context) error {
	var req finishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Images) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one image is required")
	}
	side := label.Side(req.Side)
	if !side.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown side %q", req.Side))
	}
	target, err := label.GetSize(req.Style, side)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	candidates := make([]raster.ImageBuffer, 0, len(req.Images))
	for i, img := range req.Images {
		buf, err := raster.FromDataURL(img)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("image %d: %v", i, err))
		}
		buf, err = raster.Normalize(buf)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("image %d: %v", i, err))
		}
		candidates = append(candidates, buf)
	}

	var capture *pipeline.Capture
	if req.Debug {
		capture = pipeline.NewCapture()
	}
	res, err := s.runner.Run(c.Request().Context(), pipeline.Request{
		Candidates: candidates,
		Target:     target,
		Side:       side,
		Background: req.Background,
		Capture:    capture,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(http.StatusOK, buildSideResult(res, capture))
}

func (s *Server) handleValidateUpload(c echo.Context) error {
	var req validateUploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	side := label.Side(req.Side)
	if !side.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown side %q", req.Side))
	}
	target, err := label.GetSize(req.Style, side)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.WidthMm <= 0 || req.HeightMm <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "page dimensions must be positive")
	}

	verdict := dimcheck.CheckAbsolute(req.WidthMm, req.HeightMm, target, s.cfg.BleedMm, s.cfg.AbsoluteToleranceMm)
	return c.JSON(http.StatusOK, verdict)
}

func resolveSides(styleName string, names []string) (map[label.Side]label.PhysicalSize, error) {
	if len(names) == 0 {
		names = []string{string(label.SideFront)}
	}
	out := make(map[label.Side]label.PhysicalSize, len(names))
	for _, name := range names {
		side := label.Side(name)
		if !side.Valid() {
			return nil, fmt.Errorf("unknown side %q", name)
		}
		target, err := label.GetSize(styleName, side)
		if err != nil {
			return nil, err
		}
		out[side] = target
	}
	return out, nil
}

func buildSideResult(res *pipeline.Result, capture *pipeline.Capture) sideResult {
	sr := sideResult{
		Side:     string(res.Label.Side),
		Image:    base64.StdEncoding.EncodeToString(res.Label.Buffer.Data),
		Fill:     res.Label.Fill,
		WidthPx:  res.Label.WidthPx,
		HeightPx: res.Label.HeightPx,
		Degraded: res.Label.Degraded,
		Reports:  res.Reports,
	}
	for _, stage := range capture.Stages() {
		sr.Captures = append(sr.Captures, captureStage{
			Label: stage.Label,
			Image: base64.StdEncoding.EncodeToString(stage.Buffer.Data),
		})
	}
	return sr
}
