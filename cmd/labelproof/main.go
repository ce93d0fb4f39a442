// Command labelproof runs the label finishing pipeline on local image
// files for print-shop spot checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"labelpress/internal/label"
	"labelpress/internal/pipeline"
	"labelpress/internal/printdoc"
	"labelpress/internal/raster"
	"labelpress/internal/uploader"
)

func main() {
	imagePath := flag.String("image", "", "Path to candidate artwork (PNG, JPEG, GIF, or WEBP)")
	style := flag.String("style", "classic", "Bottle style name")
	side := flag.String("side", "front", "Label side: front or back")
	dpi := flag.Int("dpi", 300, "Output raster density")
	background := flag.String("background", "", "Canvas fill as #RRGGBB (default: sampled from artwork)")
	bleed := flag.Float64("bleed", 2, "Bleed per side in mm for PDF export")
	outDir := flag.String("out", ".", "Output directory")
	pdfOut := flag.Bool("pdf", false, "Also export a print-ready PDF")
	verbose := flag.Bool("v", false, "Verbose pipeline logging")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: labelproof -image <path> [-style classic] [-side front|back] [-dpi 300] [-pdf]")
		os.Exit(1)
	}

	target, err := label.GetSize(*style, label.Side(*side))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve label size: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		os.Exit(1)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()

	cfg := pipeline.DefaultConfig()
	cfg.DPI = *dpi
	runner := pipeline.NewRunner(cfg, log)

	res, err := runner.Run(context.Background(), pipeline.Request{
		Candidates: []raster.ImageBuffer{{Data: data, MIME: "image/png"}},
		Target:     target,
		Side:       label.Side(*side),
		Background: *background,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
		os.Exit(1)
	}

	rep := res.Reports[0]
	fmt.Printf("Target: %.0fx%.0fmm (%s %s), ratio %.3f\n",
		target.WidthMm, target.HeightMm, *style, *side, target.Ratio())
	fmt.Printf("Measured ratio %.3f, deviation %.1f%%, orientation %s\n",
		rep.Verdict.MeasuredRatio, rep.Verdict.RatioDiff*100, rep.Verdict.Orientation)
	if !rep.Verdict.Acceptable {
		fmt.Println("WARNING: aspect ratio outside tolerance; composed with padding")
	}
	fmt.Printf("Fill color: %s\n", res.Label.Fill)
	fmt.Printf("Composed: %dx%dpx at %ddpi\n", res.Label.WidthPx, res.Label.HeightPx, *dpi)

	store := &uploader.FileStore{Dir: *outDir}
	base := filepath.Base(*imagePath)
	name := fmt.Sprintf("%s-%s-%s.png", base[:len(base)-len(filepath.Ext(base))], *style, *side)
	path, err := store.Upload(context.Background(), name, res.Label)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)

	if *pdfOut {
		doc, err := printdoc.Export([]*pipeline.ComposedLabel{res.Label}, *bleed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "PDF export failed: %v\n", err)
			os.Exit(1)
		}
		pdfPath := filepath.Join(*outDir, name[:len(name)-4]+".pdf")
		if err := os.WriteFile(pdfPath, doc, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write PDF: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", pdfPath)
	}
}
