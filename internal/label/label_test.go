package label_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"labelpress/internal/label"
)

func TestBuiltinStyles(t *testing.T) {
	sz, err := label.GetSize("classic", label.SideFront)
	require.NoError(t, err)
	require.Equal(t, label.PhysicalSize{WidthMm: 110, HeightMm: 65}, sz)

	sz, err = label.GetSize("square", label.SideBack)
	require.NoError(t, err)
	require.Equal(t, sz.WidthMm, sz.HeightMm)

	_, err = label.GetSize("no-such-bottle", label.SideFront)
	require.Error(t, err)

	// Miniature has no back label.
	_, err = label.GetSize("miniature", label.SideBack)
	require.Error(t, err)
}

func TestWithBleed(t *testing.T) {
	sz := label.PhysicalSize{WidthMm: 110, HeightMm: 65}
	bled := sz.WithBleed(2)
	require.Equal(t, label.PhysicalSize{WidthMm: 114, HeightMm: 69}, bled)

	// Nominal size is unchanged; the two quantities stay distinct.
	require.Equal(t, label.PhysicalSize{WidthMm: 110, HeightMm: 65}, sz)
}

func TestRatio(t *testing.T) {
	sz := label.PhysicalSize{WidthMm: 110, HeightMm: 65}
	require.InDelta(t, 1.6923, sz.Ratio(), 0.001)
}

func TestValidate(t *testing.T) {
	bad := &label.Style{StyleName: ""}
	require.Error(t, bad.Validate())

	bad = &label.Style{
		StyleName: "x",
		Sides:     map[label.Side]label.PhysicalSize{label.SideFront: {WidthMm: -1, HeightMm: 10}},
	}
	require.Error(t, bad.Validate())

	bad = &label.Style{
		StyleName: "x",
		Sides:     map[label.Side]label.PhysicalSize{label.Side("sideways"): {WidthMm: 10, HeightMm: 10}},
	}
	require.Error(t, bad.Validate())

	good := label.ClassicSpec()
	require.NoError(t, good.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.json")

	orig := &label.Style{
		StyleName: "test-bottle",
		Sides: map[label.Side]label.PhysicalSize{
			label.SideFront: {WidthMm: 95, HeightMm: 60},
			label.SideBack:  {WidthMm: 80, HeightMm: 50},
		},
	}
	require.NoError(t, orig.SaveToFile(path))

	loaded, err := label.LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, orig.StyleName, loaded.StyleName)
	require.Equal(t, orig.Sides, loaded.Sides)
}

func TestSideValid(t *testing.T) {
	require.True(t, label.SideFront.Valid())
	require.True(t, label.SideBack.Valid())
	require.False(t, label.Side("top").Valid())
}
