package pipeline_test

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"labelpress/internal/label"
	"labelpress/internal/pipeline"
	"labelpress/internal/raster"
	"labelpress/pkg/units"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	blue  = color.NRGBA{R: 20, G: 40, B: 160, A: 255}
)

func newRunner() *pipeline.Runner {
	return pipeline.NewRunner(pipeline.DefaultConfig(), zerolog.Nop())
}

// generatorCanvas is a white generator-style canvas with a centered
// content rectangle.
func generatorCanvas(t *testing.T, size int, contentW, contentH int, c color.NRGBA) raster.ImageBuffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, white)
		}
	}
	x0 := (size - contentW) / 2
	y0 := (size - contentH) / 2
	for y := y0; y < y0+contentH; y++ {
		for x := x0; x < x0+contentW; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	buf, err := raster.EncodePNG(img)
	require.NoError(t, err)
	return buf
}

func TestRunEndToEnd(t *testing.T) {
	target := label.PhysicalSize{WidthMm: 110, HeightMm: 110}

	res, err := newRunner().Run(context.Background(), pipeline.Request{
		Candidates: []raster.ImageBuffer{generatorCanvas(t, 1024, 600, 400, blue)},
		Target:     target,
		Side:       label.SideFront,
		Background: "#112233",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Label)

	side := units.MmToPixels(110, 300)
	require.Equal(t, side, res.Label.WidthPx)
	require.Equal(t, side, res.Label.HeightPx)
	require.Equal(t, "#112233", res.Label.Fill)
	require.False(t, res.Label.Degraded)

	img, _, err := raster.Decode(res.Label.Buffer)
	require.NoError(t, err)
	require.Equal(t, side, img.Bounds().Dx())

	// Corners show the palette fill, not the generator's white padding.
	r, g, b, _ := img.At(0, 0).RGBA()
	require.Equal(t, []uint8{0x11, 0x22, 0x33}, []uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})

	// The trimmed 600x400 content scales width-limited, so it touches
	// the left and right canvas edges at mid height.
	r, _, _, _ = img.At(0, side/2).RGBA()
	require.NotEqual(t, uint32(0xFFFF), r, "content should reach the left edge")

	// Report carries the ratio verdict for diagnostics.
	require.Len(t, res.Reports, 1)
	require.InDelta(t, 1.5, res.Reports[0].Verdict.MeasuredRatio, 1e-9)
	require.False(t, res.Reports[0].Verdict.Acceptable)
	require.True(t, res.Reports[0].Composed)
}

func TestRunSampledFill(t *testing.T) {
	// No palette color supplied: the fill comes from the artwork's
	// border ring after trimming.
	target := label.PhysicalSize{WidthMm: 110, HeightMm: 110}

	res, err := newRunner().Run(context.Background(), pipeline.Request{
		Candidates: []raster.ImageBuffer{generatorCanvas(t, 512, 300, 200, color.NRGBA{R: 10, G: 20, B: 30, A: 255})},
		Target:     target,
		Side:       label.SideFront,
	})
	require.NoError(t, err)
	require.Equal(t, "#0A141E", res.Label.Fill)
}

func TestRunRatioFailureStillComposes(t *testing.T) {
	// A wildly wrong aspect ratio is logged and reported, never fatal.
	target := label.PhysicalSize{WidthMm: 110, HeightMm: 65}

	res, err := newRunner().Run(context.Background(), pipeline.Request{
		Candidates: []raster.ImageBuffer{generatorCanvas(t, 800, 100, 600, blue)},
		Target:     target,
		Side:       label.SideFront,
		Background: "#FFFFFF",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Label)
	require.False(t, res.Reports[0].Verdict.Acceptable)
	require.True(t, res.Reports[0].Composed)
}

func TestRunMultipleCandidates(t *testing.T) {
	target := label.PhysicalSize{WidthMm: 110, HeightMm: 65}

	bad := raster.ImageBuffer{Data: []byte("not an image"), MIME: "image/png"}
	good := generatorCanvas(t, 512, 300, 180, blue)

	res, err := newRunner().Run(context.Background(), pipeline.Request{
		Candidates: []raster.ImageBuffer{bad, good},
		Target:     target,
		Side:       label.SideBack,
		Background: "#FFFFFF",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Label)
	require.Len(t, res.Reports, 2)
	require.NotEmpty(t, res.Reports[0].Error)
	require.True(t, res.Reports[1].Composed)
}

func TestRunAllCandidatesFail(t *testing.T) {
	target := label.PhysicalSize{WidthMm: 110, HeightMm: 65}

	res, err := newRunner().Run(context.Background(), pipeline.Request{
		Candidates: []raster.ImageBuffer{
			{Data: []byte("junk"), MIME: "image/png"},
			{},
		},
		Target: target,
		Side:   label.SideFront,
	})
	require.ErrorIs(t, err, pipeline.ErrNoUsableCandidate)
	require.NotNil(t, res)
	require.Len(t, res.Reports, 2)
}

func TestRunNoCandidates(t *testing.T) {
	_, err := newRunner().Run(context.Background(), pipeline.Request{
		Target: label.PhysicalSize{WidthMm: 10, HeightMm: 10},
		Side:   label.SideFront,
	})
	require.ErrorIs(t, err, pipeline.ErrNoCandidates)
}

func TestRunCapture(t *testing.T) {
	target := label.PhysicalSize{WidthMm: 50, HeightMm: 50}
	capture := pipeline.NewCapture()

	_, err := newRunner().Run(context.Background(), pipeline.Request{
		Candidates: []raster.ImageBuffer{generatorCanvas(t, 256, 100, 100, blue)},
		Target:     target,
		Side:       label.SideFront,
		Background: "#FFFFFF",
		Capture:    capture,
	})
	require.NoError(t, err)

	stages := capture.Stages()
	require.Len(t, stages, 2)
	labels := []string{stages[0].Label, stages[1].Label}
	require.Contains(t, strings.Join(labels, " "), "trimmed")
	require.Contains(t, strings.Join(labels, " "), "composed")
	for _, st := range stages {
		require.NotEmpty(t, st.Buffer.Data)
	}
}

func TestCaptureNilSafe(t *testing.T) {
	var capture *pipeline.Capture
	require.NotPanics(t, func() {
		capture.Add("x", raster.ImageBuffer{Data: []byte{1}})
	})
	require.Nil(t, capture.Stages())
}

func TestRunSides(t *testing.T) {
	front := label.PhysicalSize{WidthMm: 110, HeightMm: 65}
	back := label.PhysicalSize{WidthMm: 90, HeightMm: 55}

	results, err := newRunner().RunSides(context.Background(), map[label.Side]pipeline.Request{
		label.SideFront: {
			Candidates: []raster.ImageBuffer{generatorCanvas(t, 512, 320, 190, blue)},
			Target:     front,
			Side:       label.SideFront,
			Background: "#FFFFFF",
		},
		label.SideBack: {
			Candidates: []raster.ImageBuffer{generatorCanvas(t, 512, 300, 180, blue)},
			Target:     back,
			Side:       label.SideBack,
			Background: "#FFFFFF",
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, units.MmToPixels(110, 300), results[label.SideFront].Label.WidthPx)
	require.Equal(t, units.MmToPixels(90, 300), results[label.SideBack].Label.WidthPx)
	require.NotEqual(t, results[label.SideFront].Invocation, results[label.SideBack].Invocation)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newRunner().Run(ctx, pipeline.Request{
		Candidates: []raster.ImageBuffer{generatorCanvas(t, 128, 50, 50, blue)},
		Target:     label.PhysicalSize{WidthMm: 10, HeightMm: 10},
		Side:       label.SideFront,
	})
	require.ErrorIs(t, err, pipeline.ErrNoUsableCandidate)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Reports[0].Error)
}

func TestDefaultConfig(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	require.Equal(t, 300, cfg.DPI)
	require.Equal(t, uint8(12), cfg.TrimThreshold)
	require.Equal(t, 0.25, cfg.RatioTolerance)
	require.Equal(t, 4, cfg.Workers)
}
