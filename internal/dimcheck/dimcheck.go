// Package dimcheck validates candidate artwork dimensions against a
// physical label target. Verdicts are data, not errors: a failed check
// still carries the measured metrics so callers can log, retry, or
// compose anyway.
package dimcheck

import (
	"math"

	"labelpress/internal/label"
)

// Orientation classifies how a measured page relates to the target.
type Orientation string

const (
	OrientationNormal  Orientation = "normal"
	OrientationRotated Orientation = "rotated"
	OrientationUnknown Orientation = "unknown"
)

// Default tolerances for the two policies.
const (
	DefaultRatioTolerance      = 0.25
	DefaultAbsoluteToleranceMm = 5.0
)

// Verdict reports a dimension check together with its metrics.
type Verdict struct {
	Acceptable    bool        `json:"acceptable"`
	MeasuredRatio float64     `json:"measured_ratio"`
	TargetRatio   float64     `json:"target_ratio"`
	RatioDiff     float64     `json:"ratio_diff"`
	WidthDiffMm   float64     `json:"width_diff_mm,omitempty"`
	HeightDiffMm  float64     `json:"height_diff_mm,omitempty"`
	Orientation   Orientation `json:"orientation"`
}

// CheckRatio compares a cropped pixel extent against the target aspect
// ratio. Absolute scale is ignored: the composer rescales to fit, so only
// shape matters on this path.
func CheckRatio(widthPx, heightPx int, target label.PhysicalSize, tolerance float64) Verdict {
	measured := float64(widthPx) / float64(heightPx)
	targetRatio := target.Ratio()
	diff := math.Abs(measured-targetRatio) / targetRatio

	v := Verdict{
		MeasuredRatio: measured,
		TargetRatio:   targetRatio,
		RatioDiff:     diff,
		Orientation:   OrientationUnknown,
	}
	if diff <= tolerance {
		v.Acceptable = true
		v.Orientation = OrientationNormal
		return v
	}

	// A swapped-axis candidate is still worth naming in diagnostics.
	rotated := 1 / targetRatio
	if math.Abs(measured-rotated)/rotated <= tolerance {
		v.Orientation = OrientationRotated
	}
	return v
}

// CheckAbsolute compares a measured physical page size in millimeters
// against the target plus bleed on every side, in both orientations.
// Used for validating already-final uploaded print files.
func CheckAbsolute(widthMm, heightMm float64, target label.PhysicalSize, bleedPerSideMm, toleranceMm float64) Verdict {
	expected := target.WithBleed(bleedPerSideMm)

	v := Verdict{
		MeasuredRatio: widthMm / heightMm,
		TargetRatio:   expected.Ratio(),
		Orientation:   OrientationUnknown,
	}
	v.RatioDiff = math.Abs(v.MeasuredRatio-v.TargetRatio) / v.TargetRatio

	wd := math.Abs(widthMm - expected.WidthMm)
	hd := math.Abs(heightMm - expected.HeightMm)
	if wd <= toleranceMm && hd <= toleranceMm {
		v.Acceptable = true
		v.Orientation = OrientationNormal
		v.WidthDiffMm = wd
		v.HeightDiffMm = hd
		return v
	}

	rwd := math.Abs(heightMm - expected.WidthMm)
	rhd := math.Abs(widthMm - expected.HeightMm)
	if rwd <= toleranceMm && rhd <= toleranceMm {
		v.Acceptable = true
		v.Orientation = OrientationRotated
		v.WidthDiffMm = rwd
		v.HeightDiffMm = rhd
		return v
	}

	v.WidthDiffMm = wd
	v.HeightDiffMm = hd
	return v
}
