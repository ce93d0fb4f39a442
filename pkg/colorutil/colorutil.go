// Package colorutil provides shared color utilities for the label pipeline.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common fill colors used throughout the application.
var (
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// ParseHex parses a "#RRGGBB" color string. A missing leading '#' and
// lowercase digits are accepted.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(h), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// FormatHex renders a color as an uppercase "#RRGGBB" string. Alpha is dropped.
func FormatHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// NearWhite reports whether every channel of c exceeds the 8-bit threshold.
// Used to classify generator canvas padding as background.
func NearWhite(c color.Color, threshold uint8) bool {
	r, g, b, _ := c.RGBA()
	t := uint32(threshold)
	return uint32(r>>8) > t && uint32(g>>8) > t && uint32(b>>8) > t
}
