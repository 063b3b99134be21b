package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"log"
	"os/exec"
	"time"

	"surat_pernyataan_go/config"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/go-pdf/fpdf"
)

// A4 page size in millimeters, and its CSS pixel size at 96 dpi
const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0

	a4WidthPx  = 794
	a4HeightPx = 1123
)

// RasterOptions mirror the capture settings of the page rasterizer
type RasterOptions struct {
	Scale       float64 // device pixels per CSS pixel
	JPEGQuality int
	Timeout     time.Duration
}

// DefaultRasterOptions returns default options for statement letters
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		Scale:       2,
		JPEGQuality: 98,
		Timeout:     60 * time.Second,
	}
}

// ErrExportFailed wraps every export failure; handlers show a generic retry message for it
var ErrExportFailed = errors.New("export failed")

// PDFExporter turns a paginated document into PDF bytes
type PDFExporter interface {
	Export(ctx context.Context, doc Document) ([]byte, error)
	Mode() string
}

// Exporter is the global PDF exporter
var Exporter PDFExporter

// PDFCache is the global export cache, nil when Redis is not configured
var PDFCache *ExportCache

// InitializeExport sets up the exporter and the export cache. Storage must be
// initialized first, the exporters resolve uploaded images through it.
func InitializeExport(cfg *config.Config) {
	Exporter = NewExporter(cfg, Storage)
	PDFCache = NewExportCache(cfg)
}

// NewExporter picks the exporter for the configured mode. In auto mode headless
// Chrome is used when a browser can be found, the text exporter otherwise.
func NewExporter(cfg *config.Config, storage StorageProvider) PDFExporter {
	mode := cfg.ExportMode
	chromePath := cfg.ChromePath

	if mode == config.ExportModeAuto {
		if chromePath == "" {
			chromePath = findChrome()
		}
		if chromePath != "" {
			mode = config.ExportModeChrome
		} else {
			mode = config.ExportModeText
		}
	}

	if mode == config.ExportModeChrome {
		log.Printf("PDF export: headless Chrome rasterizer (path: %q)", chromePath)
		return NewChromeExporter(chromePath, storage)
	}

	log.Println("PDF export: direct text layout")
	return NewTextExporter(storage)
}

// findChrome looks for a Chrome or Chromium binary on PATH
func findChrome() string {
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

// ChromeExporter renders the document HTML in headless Chrome, screenshots each
// A4 page box and embeds the images into a PDF
type ChromeExporter struct {
	execPath string
	storage  StorageProvider
	options  RasterOptions
}

// NewChromeExporter creates a rasterizing exporter. An empty execPath lets
// chromedp find the browser.
func NewChromeExporter(execPath string, storage StorageProvider) *ChromeExporter {
	return &ChromeExporter{
		execPath: execPath,
		storage:  storage,
		options:  DefaultRasterOptions(),
	}
}

// Mode returns the export mode name
func (e *ChromeExporter) Mode() string {
	return config.ExportModeChrome
}

// Export rasterizes every page and embeds it into an A4 PDF
func (e *ChromeExporter) Export(ctx context.Context, doc Document) ([]byte, error) {
	inlined, err := InlineImages(ctx, e.storage, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	htmlContent, err := RenderStandaloneHTML(ctx, inlined)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	shots, err := e.capturePages(ctx, htmlContent, inlined.PageCount())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	pages := make([][]byte, len(shots))
	for i, shot := range shots {
		if pages[i], err = pngToJPEG(shot, e.options.JPEGQuality); err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrExportFailed, i+1, err)
		}
	}

	pdfBytes, err := EmbedPageImages(pages, doc.Letter.Title())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return pdfBytes, nil
}

// waitForImagesJS resolves once every image in the document has loaded or failed
const waitForImagesJS = `Promise.all(Array.from(document.images).map(img => img.complete ? true : new Promise(r => { img.onload = img.onerror = () => r(true); }))).then(() => document.querySelectorAll('.a4-paper').length)`

// capturePages loads the HTML and returns one PNG screenshot per page box
func (e *ChromeExporter) capturePages(ctx context.Context, htmlContent string, pageCount int) ([][]byte, error) {
	// Configure Chrome executable path from environment or default
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Custom Chrome path (for headless-shell in Docker)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, e.options.Timeout)
	defer cancelTimeout()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	// Create a new browser context
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var rendered int
	shots := make([][]byte, pageCount)

	actions := []chromedp.Action{
		chromedp.EmulateViewport(a4WidthPx, a4HeightPx),
		// Navigate to a blank page first
		chromedp.Navigate("about:blank"),
		// Set the HTML content
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// The pages must be fully rendered before capture
		chromedp.WaitReady("#pdf-content", chromedp.ByQuery),
		chromedp.Evaluate(waitForImagesJS, &rendered, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	}
	for i := range shots {
		sel := fmt.Sprintf("#page-%d", i+1)
		actions = append(actions, chromedp.ScreenshotScale(sel, e.options.Scale, &shots[i], chromedp.ByQuery))
	}

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return nil, fmt.Errorf("failed to capture pages: %w", err)
	}
	if rendered != pageCount {
		return nil, fmt.Errorf("rendered %d pages, expected %d", rendered, pageCount)
	}

	return shots, nil
}

// pngToJPEG re-encodes a screenshot as JPEG
func pngToJPEG(data []byte, quality int) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EmbedPageImages builds an A4 portrait PDF with one full-bleed JPEG per page
func EmbedPageImages(pages [][]byte, title string) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New("no pages to embed")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("surat-pernyataan", true)

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for i, img := range pages {
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, A4WidthMM, A4HeightMM, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return out.Bytes(), nil
}
