// Package pipeline drives candidate artwork through trim, dimension
// gating, fill color detection, and canvas composition.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"labelpress/internal/colorsample"
	"labelpress/internal/compose"
	"labelpress/internal/dimcheck"
	"labelpress/internal/label"
	"labelpress/internal/raster"
	"labelpress/internal/trim"
)

// ErrNoCandidates is returned when a request carries no images.
var ErrNoCandidates = errors.New("pipeline: no candidate images")

// ErrNoUsableCandidate is returned when every candidate failed to decode.
var ErrNoUsableCandidate = errors.New("pipeline: no usable candidate")

// Config carries the finishing parameters shared by all stages.
type Config struct {
	DPI            int
	TrimThreshold  uint8
	RingWidth      int
	WhiteThreshold uint8
	RatioTolerance float64
	// Workers caps concurrent candidate processing; each in-flight
	// candidate holds a decoded raster buffer.
	Workers int
	Timeout time.Duration
}

// DefaultConfig returns the finishing defaults.
func DefaultConfig() Config {
	return Config{
		DPI:            compose.DefaultDPI,
		TrimThreshold:  12,
		RingWidth:      1,
		WhiteThreshold: 245,
		RatioTolerance: dimcheck.DefaultRatioTolerance,
		Workers:        4,
		Timeout:        60 * time.Second,
	}
}

// Request is one finishing run for a single label side.
type Request struct {
	Candidates []raster.ImageBuffer
	Target     label.PhysicalSize
	Side       label.Side
	// Background forces the canvas fill; empty means sample it from
	// each candidate's artwork.
	Background string
	// Capture, when non-nil, records intermediate artifacts.
	Capture *Capture
}

// CandidateReport records what happened to one candidate.
type CandidateReport struct {
	Index     int              `json:"index"`
	Verdict   dimcheck.Verdict `json:"verdict"`
	FillColor string           `json:"fill_color,omitempty"`
	Composed  bool             `json:"composed"`
	// Degraded means composition failed and the trimmed image stands in.
	Degraded bool   `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ComposedLabel is the terminal artifact handed to the uploader.
type ComposedLabel struct {
	Buffer   raster.ImageBuffer
	Side     label.Side
	Target   label.PhysicalSize
	WidthPx  int
	HeightPx int
	Fill     string
	Degraded bool
}

// Result is the outcome of finishing one side.
type Result struct {
	// Label is the first successfully composed candidate in request order.
	Label      *ComposedLabel
	Reports    []CandidateReport
	Invocation string
}

// Runner executes finishing requests.
type Runner struct {
	cfg Config
	log zerolog.Logger
}

// NewRunner returns a Runner with zeroed config fields replaced by defaults.
func NewRunner(cfg Config, log zerolog.Logger) *Runner {
	def := DefaultConfig()
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}
	if cfg.TrimThreshold == 0 {
		cfg.TrimThreshold = def.TrimThreshold
	}
	if cfg.RingWidth <= 0 {
		cfg.RingWidth = def.RingWidth
	}
	if cfg.WhiteThreshold == 0 {
		cfg.WhiteThreshold = def.WhiteThreshold
	}
	if cfg.RatioTolerance <= 0 {
		cfg.RatioTolerance = def.RatioTolerance
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Runner{cfg: cfg, log: log}
}

// Run processes every candidate concurrently under the worker cap and
// returns the first composed result in candidate order, with a report for
// each candidate. An error is returned only when no candidate produced
// any output at all.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if !req.Target.Valid() {
		return nil, fmt.Errorf("pipeline: invalid target size %+v", req.Target)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	invocation := uuid.NewString()
	log := r.log.With().Str("invocation", invocation).Str("side", string(req.Side)).Logger()

	labels := make([]*ComposedLabel, len(req.Candidates))
	reports := make([]CandidateReport, len(req.Candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, cand := range req.Candidates {
		g.Go(func() error {
			labels[i], reports[i] = r.finishOne(ctx, log, i, cand, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Reports: reports, Invocation: invocation}
	for _, lbl := range labels {
		if lbl != nil {
			res.Label = lbl
			break
		}
	}
	if res.Label == nil {
		return res, fmt.Errorf("%w: %s", ErrNoUsableCandidate, firstError(reports))
	}
	return res, nil
}

// RunSides runs one request per side concurrently and keys results by side.
func (r *Runner) RunSides(ctx context.Context, reqs map[label.Side]Request) (map[label.Side]*Result, error) {
	var mu sync.Mutex
	results := make(map[label.Side]*Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	for side, req := range reqs {
		g.Go(func() error {
			res, err := r.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("side %s: %w", side, err)
			}
			mu.Lock()
			results[side] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// finishOne runs trim, the ratio gate, fill detection, and composition for
// a single candidate. Failures are reported, not returned: only the whole
// request can fail.
func (r *Runner) finishOne(ctx context.Context, log zerolog.Logger, idx int, cand raster.ImageBuffer, req Request) (*ComposedLabel, CandidateReport) {
	rep := CandidateReport{Index: idx}

	if err := ctx.Err(); err != nil {
		rep.Error = err.Error()
		return nil, rep
	}

	tr, err := trim.Trim(cand, trim.Options{Threshold: r.cfg.TrimThreshold})
	if err != nil {
		log.Warn().Err(err).Int("candidate", idx).Msg("trim failed")
		rep.Error = err.Error()
		return nil, rep
	}
	if buf, err := tr.Buffer(); err == nil {
		req.Capture.Add(fmt.Sprintf("candidate-%d-trimmed", idx), buf)
	}
	log.Debug().
		Int("candidate", idx).
		Int("width", tr.Cropped.Width).
		Int("height", tr.Cropped.Height).
		Int("removed_x", tr.RemovedX()).
		Int("removed_y", tr.RemovedY()).
		Msg("trimmed")

	// Ratio gate: log only. Composition pads a wrong-aspect image onto the
	// target canvas, which beats returning nothing.
	rep.Verdict = dimcheck.CheckRatio(tr.Cropped.Width, tr.Cropped.Height, req.Target, r.cfg.RatioTolerance)
	if !rep.Verdict.Acceptable {
		log.Warn().
			Int("candidate", idx).
			Float64("measured_ratio", rep.Verdict.MeasuredRatio).
			Float64("target_ratio", rep.Verdict.TargetRatio).
			Float64("ratio_diff", rep.Verdict.RatioDiff).
			Msg("aspect ratio outside tolerance, composing anyway")
	}

	fill := req.Background
	if fill == "" {
		fill = colorsample.FirstContentColor(tr.Trimmed, colorsample.Options{
			RingWidth:      r.cfg.RingWidth,
			WhiteThreshold: r.cfg.WhiteThreshold,
		})
	}
	rep.FillColor = fill

	if err := ctx.Err(); err != nil {
		rep.Error = err.Error()
		return nil, rep
	}

	out := &ComposedLabel{Side: req.Side, Target: req.Target, Fill: fill}
	res, err := compose.Compose(tr.Trimmed, req.Target, compose.Options{DPI: r.cfg.DPI, Background: fill})
	if err != nil {
		// Degraded output: a usably cropped image beats failing the request.
		log.Warn().Err(err).Int("candidate", idx).Msg("compose failed, returning trimmed image")
		buf, encErr := tr.Buffer()
		if encErr != nil {
			rep.Error = encErr.Error()
			return nil, rep
		}
		out.Buffer = buf
		out.WidthPx = tr.Cropped.Width
		out.HeightPx = tr.Cropped.Height
		out.Degraded = true
		rep.Degraded = true
		rep.Composed = true
		return out, rep
	}

	buf, err := res.Buffer()
	if err != nil {
		rep.Error = err.Error()
		return nil, rep
	}
	req.Capture.Add(fmt.Sprintf("candidate-%d-composed", idx), buf)

	out.Buffer = buf
	out.WidthPx = res.WidthPx
	out.HeightPx = res.HeightPx
	rep.Composed = true
	return out, rep
}

func firstError(reports []CandidateReport) string {
	for _, rep := range reports {
		if rep.Error != "" {
			return fmt.Sprintf("candidate %d: %s", rep.Index, rep.Error)
		}
	}
	return "all candidates failed"
}
