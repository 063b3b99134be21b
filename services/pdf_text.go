package services

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"surat_pernyataan_go/config"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/webp"
)

// Text layout metrics in millimeters
const (
	textMarginX    = 25.0
	textMarginTop  = 20.0
	textLineHeight = 6.35 // 12pt at 1.5 line spacing
	textBodyWidth  = A4WidthMM - 2*textMarginX
	signatureWidth = 72.0
	signatureRight = 8.0
	imageAreaH     = 32.0
)

// TextExporter lays the paginated document out directly with fpdf. Page breaks
// come from the paginator only. A page whose text is longer than the sheet keeps
// flowing past the bottom margin, it is never moved to another page.
type TextExporter struct {
	storage StorageProvider
}

// NewTextExporter creates a direct layout exporter
func NewTextExporter(storage StorageProvider) *TextExporter {
	return &TextExporter{storage: storage}
}

// Mode returns the export mode name
func (e *TextExporter) Mode() string {
	return config.ExportModeText
}

// Export writes one A4 page per paginated page
func (e *TextExporter) Export(ctx context.Context, doc Document) ([]byte, error) {
	images, err := ResolveDocumentImages(ctx, e.storage, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(textMarginX, textMarginTop, textMarginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Letter.Title(), true)
	pdf.SetCreator("surat-pernyataan", true)

	w := &textWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	logo, err := w.register("logo", images.Logo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	signature, err := w.register("signature", images.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	stamp, err := w.register("stamp", images.Stamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	for _, p := range doc.Pages {
		pdf.AddPage()
		pdf.SetTextColor(17, 17, 17)

		if p.IsFirst {
			if doc.Letter.KopSurat.Enabled {
				w.letterhead(doc, logo)
			}
			w.title(doc)
			w.identity(doc)
		}

		pdf.SetFont("Times", "", 12)
		pdf.MultiCell(textBodyWidth, textLineHeight, w.tr(p.Content), "", "J", false)

		if p.IsLast {
			w.signature(doc, signature, stamp)
		}

		w.pageNumber(p)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: failed to write PDF: %v", ErrExportFailed, err)
	}
	return out.Bytes(), nil
}

// registeredImage is an image registered with the PDF and its pixel aspect
type registeredImage struct {
	name    string
	imgType string
	aspect  float64 // width / height
}

type textWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// register adds an image to the PDF, converting WebP which fpdf cannot embed
func (w *textWriter) register(name string, img *Image) (*registeredImage, error) {
	if img == nil {
		return nil, nil
	}

	data := img.Data
	var imgType string
	switch img.MimeType {
	case "image/png":
		imgType = "PNG"
	case "image/jpeg":
		imgType = "JPG"
	case "image/gif":
		imgType = "GIF"
	case "image/webp":
		decoded, err := webp.Decode(bytes.NewReader(img.Data))
		if err != nil {
			return nil, fmt.Errorf("%s: failed to decode webp: %w", name, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, decoded); err != nil {
			return nil, fmt.Errorf("%s: failed to convert webp: %w", name, err)
		}
		data = buf.Bytes()
		imgType = "PNG"
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrInvalidImage)
	}

	info := w.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(data))
	if w.pdf.Err() {
		return nil, fmt.Errorf("%s: %w", name, w.pdf.Error())
	}

	aspect := 1.0
	if info != nil && info.Height() > 0 {
		aspect = info.Width() / info.Height()
	}
	return &registeredImage{name: name, imgType: imgType, aspect: aspect}, nil
}

// drawContained draws an image centered inside a box, keeping its aspect ratio
func (w *textWriter) drawContained(img *registeredImage, x, y, boxW, boxH float64) {
	drawW, drawH := boxW, boxW/img.aspect
	if drawH > boxH {
		drawH = boxH
		drawW = boxH * img.aspect
	}
	w.pdf.ImageOptions(img.name, x+(boxW-drawW)/2, y+(boxH-drawH)/2, drawW, drawH, false,
		fpdf.ImageOptions{ImageType: img.imgType}, 0, "")
}

func (w *textWriter) letterhead(doc Document, logo *registeredImage) {
	pdf := w.pdf
	kop := doc.Letter.KopSurat
	top := pdf.GetY()

	textX, textW := textMarginX, textBodyWidth
	if logo != nil {
		w.drawContained(logo, textMarginX, top, 24, 24)
		textX += 28
		textW -= 28
	}

	pdf.SetXY(textX, top+2)
	pdf.SetFont("Times", "B", 16)
	pdf.MultiCell(textW, 7, w.tr(strings.ToUpper(kop.NamaInstansi)), "", "C", false)
	pdf.SetFont("Times", "", 10.5)
	pdf.SetX(textX)
	pdf.MultiCell(textW, 5, w.tr(kop.Alamat), "", "C", false)
	pdf.SetX(textX)
	pdf.MultiCell(textW, 5, w.tr(kop.Kontak), "", "C", false)

	lineY := pdf.GetY() + 2
	if minY := top + 26; lineY < minY {
		lineY = minY
	}
	pdf.SetDrawColor(31, 41, 55)
	pdf.SetLineWidth(0.6)
	pdf.Line(textMarginX, lineY, A4WidthMM-textMarginX, lineY)
	pdf.SetLineWidth(0.2)
	pdf.Line(textMarginX, lineY+1, A4WidthMM-textMarginX, lineY+1)

	pdf.SetXY(textMarginX, lineY+8)
}

func (w *textWriter) title(doc Document) {
	pdf := w.pdf
	pdf.SetY(pdf.GetY() + 4)
	pdf.SetFont("Times", "BU", 14)
	pdf.CellFormat(textBodyWidth, 7, w.tr(strings.ToUpper(doc.Letter.Title())), "", 1, "C", false, 0, "")
	if doc.Letter.NomorSurat != "" {
		pdf.SetFont("Times", "B", 10.5)
		pdf.CellFormat(textBodyWidth, 5, w.tr("Nomor: "+doc.Letter.NomorSurat), "", 1, "C", false, 0, "")
	}
	pdf.Ln(8)
}

func (w *textWriter) identity(doc Document) {
	pdf := w.pdf
	letter := doc.Letter

	pdf.SetFont("Times", "", 12)
	pdf.CellFormat(textBodyWidth, textLineHeight, "Yang bertanda tangan di bawah ini:", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	rows := []struct {
		label, value string
		bold         bool
	}{
		{"Nama", letter.Nama, true},
		{"NIK", letter.NIK, false},
		{"Pekerjaan/Jabatan", letter.Pekerjaan, false},
		{"Alamat", letter.Alamat, false},
	}
	for _, row := range rows {
		y := pdf.GetY()
		pdf.SetFont("Times", "", 12)
		pdf.CellFormat(40, textLineHeight, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(4, textLineHeight, ":", "", 0, "L", false, 0, "")
		if row.bold {
			pdf.SetFont("Times", "B", 12)
		}
		pdf.SetXY(textMarginX+44, y)
		pdf.MultiCell(textBodyWidth-44, textLineHeight, w.tr(row.value), "", "L", false)
	}

	pdf.SetFont("Times", "", 12)
	pdf.Ln(4)
	pdf.CellFormat(textBodyWidth, textLineHeight, "Dengan ini menyatakan dengan sesungguhnya, bahwa saya:", "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (w *textWriter) signature(doc Document, signature, stamp *registeredImage) {
	pdf := w.pdf
	x := A4WidthMM - textMarginX - signatureRight - signatureWidth

	pdf.SetY(pdf.GetY() + 12)
	pdf.SetFont("Times", "", 12)
	pdf.SetX(x)
	pdf.CellFormat(signatureWidth, textLineHeight, w.tr(doc.Tempat()+", "+doc.FormattedDate), "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "B", 12)
	pdf.SetX(x)
	pdf.CellFormat(signatureWidth, textLineHeight, "Yang membuat pernyataan,", "", 1, "C", false, 0, "")

	areaY := pdf.GetY() + 4
	if stamp != nil {
		// stamp sits behind the signature, right aligned and tilted
		stampX := x + signatureWidth - imageAreaH
		pdf.SetAlpha(0.7, "Normal")
		pdf.TransformBegin()
		pdf.TransformRotate(12, stampX+imageAreaH/2, areaY+imageAreaH/2)
		w.drawContained(stamp, stampX, areaY, imageAreaH, imageAreaH)
		pdf.TransformEnd()
		pdf.SetAlpha(1, "Normal")
	}
	if signature != nil {
		w.drawContained(signature, x, areaY, signatureWidth, imageAreaH)
	}

	pdf.SetXY(x, areaY+imageAreaH+2)
	pdf.SetFont("Times", "B", 12)
	name := w.tr(doc.SignerName())
	nameW := pdf.GetStringWidth(name)
	if nameW < 50 {
		nameW = 50
	}
	pdf.CellFormat(signatureWidth, textLineHeight, name, "", 1, "C", false, 0, "")
	lineY := pdf.GetY()
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(x+(signatureWidth-nameW)/2, lineY, x+(signatureWidth+nameW)/2, lineY)
}

func (w *textWriter) pageNumber(p Page) {
	pdf := w.pdf
	pdf.SetFont("Times", "", 9)
	pdf.SetTextColor(156, 163, 175)
	pdf.SetXY(0, A4HeightMM-5-4)
	pdf.CellFormat(A4WidthMM-10, 4, fmt.Sprintf("Halaman %d dari %d", p.Number, p.Total), "", 0, "R", false, 0, "")
}
