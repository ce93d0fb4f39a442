package printdoc_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"labelpress/internal/label"
	"labelpress/internal/pipeline"
	"labelpress/internal/printdoc"
	"labelpress/internal/raster"
)

func composedFixture(t *testing.T, side label.Side, target label.PhysicalSize) *pipeline.ComposedLabel {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 120, G: 40, B: 40, A: 255})
		}
	}
	buf, err := raster.EncodePNG(img)
	require.NoError(t, err)
	return &pipeline.ComposedLabel{
		Buffer:   buf,
		Side:     side,
		Target:   target,
		WidthPx:  40,
		HeightPx: 30,
		Fill:     "#782828",
	}
}

func TestExport(t *testing.T) {
	front := composedFixture(t, label.SideFront, label.PhysicalSize{WidthMm: 110, HeightMm: 65})
	back := composedFixture(t, label.SideBack, label.PhysicalSize{WidthMm: 90, HeightMm: 55})

	doc, err := printdoc.Export([]*pipeline.ComposedLabel{front, back}, 2)
	require.NoError(t, err)
	require.True(t, len(doc) > 0)
	require.Equal(t, "%PDF", string(doc[:4]))
}

func TestExportEmpty(t *testing.T) {
	_, err := printdoc.Export(nil, 2)
	require.Error(t, err)
}

func TestExportMissingData(t *testing.T) {
	_, err := printdoc.Export([]*pipeline.ComposedLabel{{}}, 2)
	require.Error(t, err)
}
