// Package units provides conversions between physical print units and pixels.
package units

import "math"

// MmPerInch is the number of millimeters in one inch.
const MmPerInch = 25.4

// PointsPerInch is the PostScript point density used for print documents.
const PointsPerInch = 72.0

// MmToPixels converts millimeters to pixels at the given density.
// The result is rounded to the nearest pixel and never drops below 1,
// so image allocations derived from it always have a positive extent.
// Callers must reject non-positive mm before converting.
func MmToPixels(mm float64, dpi int) int {
	px := int(math.Round(mm / MmPerInch * float64(dpi)))
	if px < 1 {
		return 1
	}
	return px
}

// MmToPoints converts millimeters to PostScript points for print-document
// placement. Raster sizing goes through MmToPixels instead.
func MmToPoints(mm float64) float64 {
	return mm / MmPerInch * PointsPerInch
}

// PixelsToMm converts a pixel extent back to millimeters at the given density.
func PixelsToMm(px int, dpi int) float64 {
	return float64(px) / float64(dpi) * MmPerInch
}
