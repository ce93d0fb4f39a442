// Package colorsample picks a representative fill color from the border
// region of label artwork.
package colorsample

import (
	"fmt"
	"image"
	"sort"

	"gonum.org/v1/gonum/stat"

	"labelpress/pkg/colorutil"
)

// Options configures border-ring sampling.
type Options struct {
	// RingWidth is how many pixels deep to sample along each edge.
	RingWidth int
	// WhiteThreshold classifies a sample as background when every
	// channel exceeds it.
	WhiteThreshold uint8
}

// DefaultOptions returns the sampling parameters used by the pipeline.
func DefaultOptions() Options {
	return Options{RingWidth: 1, WhiteThreshold: 245}
}

// FirstContentColor scans a ring around the image edges, discards
// background-like samples, and returns the per-channel median of the rest
// as an uppercase "#RRGGBB" string. A fully background ring yields white,
// which is always a safe canvas fill.
func FirstContentColor(img image.Image, opts Options) string {
	if opts.RingWidth < 1 {
		opts.RingWidth = 1
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return colorutil.FormatHex(colorutil.White)
	}

	var rs, gs, bs []float64
	sample := func(x, y int) {
		c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
		if colorutil.NearWhite(c, opts.WhiteThreshold) {
			return
		}
		r, g, b, _ := c.RGBA()
		rs = append(rs, float64(r>>8))
		gs = append(gs, float64(g>>8))
		bs = append(bs, float64(b>>8))
	}

	for d := 0; d < opts.RingWidth && d*2 < h; d++ {
		for x := 0; x < w; x++ {
			sample(x, d)
			if h-1-d != d {
				sample(x, h-1-d)
			}
		}
	}
	for d := 0; d < opts.RingWidth && d*2 < w; d++ {
		// Rows already covered the ring's corners.
		for y := opts.RingWidth; y < h-opts.RingWidth; y++ {
			sample(d, y)
			if w-1-d != d {
				sample(w-1-d, y)
			}
		}
	}

	if len(rs) == 0 {
		return colorutil.FormatHex(colorutil.White)
	}

	return fmt.Sprintf("#%02X%02X%02X", median(rs), median(gs), median(bs))
}

func median(xs []float64) uint8 {
	sort.Float64s(xs)
	return uint8(stat.Quantile(0.5, stat.Empirical, xs, nil))
}
