// Package printdoc renders composed labels into print-ready PDF documents.
package printdoc

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"labelpress/internal/pipeline"
	"labelpress/pkg/units"
)

// Export writes one PDF page per composed label. Each page is sized to the
// label's including-bleed area in points so the artwork fills the sheet
// edge to edge and the cut line falls inside it.
func Export(labels []*pipeline.ComposedLabel, bleedPerSideMm float64) ([]byte, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("printdoc: no labels to export")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt"})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for i, lbl := range labels {
		if lbl == nil || len(lbl.Buffer.Data) == 0 {
			return nil, fmt.Errorf("printdoc: label %d has no image data", i)
		}
		page := lbl.Target.WithBleed(bleedPerSideMm)
		w := units.MmToPoints(page.WidthMm)
		h := units.MmToPoints(page.HeightMm)

		orientation := "P"
		if w > h {
			orientation = "L"
		}
		pdf.AddPageFormat(orientation, gofpdf.SizeType{Wd: w, Ht: h})

		name := fmt.Sprintf("label-%d-%s", i, lbl.Side)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(lbl.Buffer.Data))
		pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("printdoc: %w", err)
	}
	return out.Bytes(), nil
}
