// Package trim removes uniform background borders from generated label artwork.
package trim

import (
	"image"
	"image/color"
	"image/draw"

	"labelpress/internal/raster"
)

// Options configures border trimming.
type Options struct {
	// Threshold is the maximum per-channel deviation from the reference
	// edge color for a pixel to still count as background.
	Threshold uint8
}

// DefaultOptions returns the trim parameters used by the pipeline.
func DefaultOptions() Options {
	return Options{Threshold: 12}
}

// Result holds the trimmed image and the geometry of the cut.
type Result struct {
	Trimmed  *image.NRGBA
	Original raster.Metadata
	Cropped  raster.Metadata

	// Pixels removed per edge.
	RemovedLeft   int
	RemovedRight  int
	RemovedTop    int
	RemovedBottom int
}

// RemovedX returns the total pixels removed along the horizontal axis.
func (r *Result) RemovedX() int { return r.RemovedLeft + r.RemovedRight }

// RemovedY returns the total pixels removed along the vertical axis.
func (r *Result) RemovedY() int { return r.RemovedTop + r.RemovedBottom }

// Buffer encodes the trimmed image as PNG.
func (r *Result) Buffer() (raster.ImageBuffer, error) {
	return raster.EncodePNG(r.Trimmed)
}

// Trim decodes the buffer, flattens any alpha onto white, and strips
// uniform border rows and columns from all four sides. The reference
// background color is the flattened top-left pixel.
func Trim(buf raster.ImageBuffer, opts Options) (*Result, error) {
	img, _, err := raster.Decode(buf)
	if err != nil {
		return nil, err
	}

	flat, err := raster.Flatten(img, color.White)
	if err != nil {
		return nil, err
	}

	res := TrimImage(flat, opts)
	if meta, err := raster.ReadMetadata(buf); err == nil {
		res.Original.DensityPPI = meta.DensityPPI
	}
	return res, nil
}

// TrimImage trims an already flattened image. The input is not modified.
func TrimImage(flat *image.NRGBA, opts Options) *Result {
	w := flat.Bounds().Dx()
	h := flat.Bounds().Dy()
	original := raster.MetadataOf(flat)

	ref := flat.NRGBAAt(flat.Bounds().Min.X, flat.Bounds().Min.Y)

	top := 0
	for top < h && rowUniform(flat, top, ref, opts.Threshold) {
		top++
	}
	bottom := 0
	for bottom < h-top && rowUniform(flat, h-1-bottom, ref, opts.Threshold) {
		bottom++
	}
	left := 0
	for left < w && colUniform(flat, left, top, h-bottom, ref, opts.Threshold) {
		left++
	}
	right := 0
	for right < w-left && colUniform(flat, w-1-right, top, h-bottom, ref, opts.Threshold) {
		right++
	}

	// Entirely background: nothing to anchor a crop on, keep the input.
	if top >= h || left >= w {
		return &Result{
			Trimmed:  cloneNRGBA(flat),
			Original: original,
			Cropped:  original,
		}
	}

	cropped := image.NewNRGBA(image.Rect(0, 0, w-left-right, h-top-bottom))
	src := image.Rect(left, top, w-right, h-bottom).Add(flat.Bounds().Min)
	draw.Draw(cropped, cropped.Bounds(), flat, src.Min, draw.Src)

	return &Result{
		Trimmed:       cropped,
		Original:      original,
		Cropped:       raster.MetadataOf(cropped),
		RemovedLeft:   left,
		RemovedRight:  right,
		RemovedTop:    top,
		RemovedBottom: bottom,
	}
}

func rowUniform(img *image.NRGBA, y int, ref color.NRGBA, threshold uint8) bool {
	min := img.Bounds().Min
	w := img.Bounds().Dx()
	for x := 0; x < w; x++ {
		if !withinThreshold(img.NRGBAAt(min.X+x, min.Y+y), ref, threshold) {
			return false
		}
	}
	return true
}

func colUniform(img *image.NRGBA, x, yFrom, yTo int, ref color.NRGBA, threshold uint8) bool {
	min := img.Bounds().Min
	for y := yFrom; y < yTo; y++ {
		if !withinThreshold(img.NRGBAAt(min.X+x, min.Y+y), ref, threshold) {
			return false
		}
	}
	return true
}

func withinThreshold(c, ref color.NRGBA, threshold uint8) bool {
	return absDiff(c.R, ref.R) <= threshold &&
		absDiff(c.G, ref.G) <= threshold &&
		absDiff(c.B, ref.B) <= threshold
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}
