// Package label provides physical label dimensions and the bottle style registry.
package label

import (
	"encoding/json"
	"fmt"
	"os"
)

// Side identifies which face of the bottle a label covers.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideFront || s == SideBack
}

// Sides lists the label sides in processing order.
func Sides() []Side {
	return []Side{SideFront, SideBack}
}

// PhysicalSize is a label's nominal print area in millimeters.
type PhysicalSize struct {
	WidthMm  float64 `json:"width_mm"`
	HeightMm float64 `json:"height_mm"`
}

// WithBleed returns the size grown by the given margin on every side.
// The nominal size stays the cut line; the bleed size is the print target.
func (p PhysicalSize) WithBleed(perSideMm float64) PhysicalSize {
	return PhysicalSize{
		WidthMm:  p.WidthMm + 2*perSideMm,
		HeightMm: p.HeightMm + 2*perSideMm,
	}
}

// Ratio returns the width/height aspect ratio.
func (p PhysicalSize) Ratio() float64 {
	return p.WidthMm / p.HeightMm
}

// Valid reports whether both extents are positive.
func (p PhysicalSize) Valid() bool {
	return p.WidthMm > 0 && p.HeightMm > 0
}

// Style defines the label areas for one bottle shape.
type Style struct {
	StyleName string                `json:"name"`
	Sides     map[Side]PhysicalSize `json:"sides"`
}

// Name returns the style's registry name.
func (s *Style) Name() string {
	return s.StyleName
}

// Size returns the label area for the given side.
func (s *Style) Size(side Side) (PhysicalSize, bool) {
	sz, ok := s.Sides[side]
	return sz, ok
}

// Validate checks the style for registration.
func (s *Style) Validate() error {
	if s.StyleName == "" {
		return fmt.Errorf("style name is required")
	}
	if len(s.Sides) == 0 {
		return fmt.Errorf("style %q has no sides", s.StyleName)
	}
	for side, sz := range s.Sides {
		if !side.Valid() {
			return fmt.Errorf("style %q: unknown side %q", s.StyleName, side)
		}
		if !sz.Valid() {
			return fmt.Errorf("style %q side %q: dimensions must be positive", s.StyleName, side)
		}
	}
	return nil
}

// SaveToFile saves the style to a JSON file.
func (s *Style) SaveToFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile loads a style from a JSON file.
func LoadFromFile(path string) (*Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var style Style
	if err := json.Unmarshal(data, &style); err != nil {
		return nil, err
	}

	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid label style: %w", err)
	}

	return &style, nil
}

// Registry of known bottle styles
var registry = make(map[string]*Style)

// Register adds a style to the registry, replacing any previous entry.
func Register(style *Style) {
	registry[style.Name()] = style
}

// GetStyle returns a style by name, or nil if unknown.
func GetStyle(name string) *Style {
	if style, ok := registry[name]; ok {
		return style
	}
	return nil
}

// GetSize returns the label area for a (style, side) pair.
func GetSize(styleName string, side Side) (PhysicalSize, error) {
	style := GetStyle(styleName)
	if style == nil {
		return PhysicalSize{}, fmt.Errorf("unknown bottle style %q", styleName)
	}
	sz, ok := style.Size(side)
	if !ok {
		return PhysicalSize{}, fmt.Errorf("style %q has no %s label", styleName, side)
	}
	return sz, nil
}

// ListStyles returns all registered style names.
func ListStyles() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func init() {
	// Register built-in bottle styles
	Register(ClassicSpec())
	Register(FlaskSpec())
	Register(SquareSpec())
	Register(MiniatureSpec())
}
