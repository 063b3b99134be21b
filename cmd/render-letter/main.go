package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"surat_pernyataan_go/config"
	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services"
)

func main() {
	in := flag.String("in", "-", "letter JSON file, - for stdin")
	out := flag.String("out", "", "output PDF file (default <FileName>.pdf)")
	mode := flag.String("mode", "", "export mode: auto, chrome or text (default EXPORT_MODE)")
	pagesOnly := flag.Bool("pages", false, "print the page chunks as JSON instead of exporting")
	flag.Parse()

	letter, err := readLetter(*in)
	if err != nil {
		log.Fatalf("Failed to read letter: %v", err)
	}
	letter.Normalize()
	if err := letter.Validate(); err != nil {
		log.Fatalf("Invalid letter: %v", err)
	}

	if *pagesOnly {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(services.Paginate(letter.Isi)); err != nil {
			log.Fatalf("Failed to write pages: %v", err)
		}
		return
	}

	cfg := config.Load()
	if *mode != "" {
		cfg.ExportMode = config.NormalizeExportMode(*mode)
	}
	services.InitializeStorage(cfg)
	exporter := services.NewExporter(cfg, services.Storage)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	doc := services.BuildDocument(letter)
	pdf, err := exporter.Export(ctx, doc)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	path := *out
	if path == "" {
		path = letter.FileName() + ".pdf"
	}
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	fmt.Printf("%s: %d page(s), %d bytes (%s)\n", path, doc.PageCount(), len(pdf), exporter.Mode())
}

func readLetter(path string) (models.LetterData, error) {
	var letter models.LetterData

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return letter, err
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&letter); err != nil {
		return letter, fmt.Errorf("invalid JSON: %w", err)
	}
	return letter, nil
}
