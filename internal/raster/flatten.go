package raster

import (
	"image"
	"image/color"
	"image/draw"

	"labelpress/pkg/colorutil"
)

// Flatten composites the image onto an opaque background of the given
// color and returns it with bounds anchored at the origin. Only white is
// supported: the generators never ask for anything else, and silently
// flattening onto the wrong color would corrupt the trim reference.
func Flatten(img image.Image, background color.Color) (*image.NRGBA, error) {
	if !isWhite(background) {
		return nil, ErrUnsupportedFlattenColor
	}

	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(colorutil.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Over)
	return out, nil
}

func isWhite(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return r == 0xFFFF && g == 0xFFFF && b == 0xFFFF && a == 0xFFFF
}
