// Package compose renders trimmed artwork onto a canvas of the exact
// physical label size.
package compose

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"labelpress/internal/label"
	"labelpress/internal/raster"
	"labelpress/pkg/colorutil"
	"labelpress/pkg/units"
)

// DefaultDPI is the raster density used when none is configured.
const DefaultDPI = 300

// Options configures canvas composition.
type Options struct {
	// DPI controls the mm to pixel conversion for the output canvas.
	DPI int
	// Background is the hex fill behind the artwork, e.g. "#FFFFFF".
	Background string
}

// DefaultOptions returns the composition parameters used by the pipeline.
func DefaultOptions() Options {
	return Options{DPI: DefaultDPI, Background: "#FFFFFF"}
}

// Result is the composed label image plus its canvas geometry.
type Result struct {
	Image    *image.NRGBA
	WidthPx  int
	HeightPx int
	OffsetX  int
	OffsetY  int
	Scale    float64
}

// Buffer encodes the composed image as PNG.
func (r *Result) Buffer() (raster.ImageBuffer, error) {
	return raster.EncodePNG(r.Image)
}

// Compose scales the artwork to fit inside the target canvas without
// cropping or distortion and centers it on a solid background. The canvas
// size comes from the physical target at the configured DPI and is
// independent of the input's own resolution.
func Compose(art image.Image, target label.PhysicalSize, opts Options) (*Result, error) {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	if !target.Valid() {
		return nil, fmt.Errorf("compose: invalid target size %+v", target)
	}
	bg, err := colorutil.ParseHex(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("compose: background: %w", err)
	}

	canvasW := units.MmToPixels(target.WidthMm, opts.DPI)
	canvasH := units.MmToPixels(target.HeightMm, opts.DPI)

	b := art.Bounds()
	artW, artH := b.Dx(), b.Dy()
	if artW == 0 || artH == 0 {
		return nil, fmt.Errorf("compose: empty artwork")
	}

	scale := math.Min(float64(canvasW)/float64(artW), float64(canvasH)/float64(artH))
	scaledW := int(scale * float64(artW))
	scaledH := int(scale * float64(artH))
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}

	resized := imaging.Resize(art, scaledW, scaledH, imaging.Lanczos)

	canvas := imaging.New(canvasW, canvasH, bg)
	offsetX := (canvasW - scaledW) / 2
	offsetY := (canvasH - scaledH) / 2
	// Overlay blends any residual alpha onto the opaque fill, so the
	// output never carries transparency.
	out := imaging.Overlay(canvas, resized, image.Pt(offsetX, offsetY), 1.0)

	return &Result{
		Image:    out,
		WidthPx:  canvasW,
		HeightPx: canvasH,
		OffsetX:  offsetX,
		OffsetY:  offsetY,
		Scale:    scale,
	}, nil
}
