package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// documentView is the flattened projection of a Document the templates render
type documentView struct {
	Kop struct {
		Enabled      bool
		NamaInstansi string
		Alamat       string
		Kontak       string
		LogoSrc      string
	}
	Title         string
	NomorSurat    string
	Nama          string
	NIK           string
	Pekerjaan     string
	Alamat        string
	Tempat        string
	FormattedDate string
	SignerName    string
	SignatureSrc  string
	StampSrc      string
	Pages         []Page
}

// InlineImageURL only lets inline image data through; anything else renders no image
func InlineImageURL(ref *string) string {
	if ref == nil || !strings.HasPrefix(*ref, "data:image/") {
		return ""
	}
	return *ref
}

func newDocumentView(doc Document) documentView {
	letter := doc.Letter

	var v documentView
	v.Kop.Enabled = letter.KopSurat.Enabled
	v.Kop.NamaInstansi = letter.KopSurat.NamaInstansi
	v.Kop.Alamat = letter.KopSurat.Alamat
	v.Kop.Kontak = letter.KopSurat.Kontak
	v.Kop.LogoSrc = InlineImageURL(letter.KopSurat.LogoURL)
	v.Title = letter.Title()
	v.NomorSurat = letter.NomorSurat
	v.Nama = letter.Nama
	v.NIK = letter.NIK
	v.Pekerjaan = letter.Pekerjaan
	v.Alamat = letter.Alamat
	v.Tempat = doc.Tempat()
	v.FormattedDate = doc.FormattedDate
	v.SignerName = doc.SignerName()
	v.SignatureSrc = InlineImageURL(letter.SignatureURL)
	v.StampSrc = InlineImageURL(letter.StampURL)
	v.Pages = doc.Pages
	return v
}

// DocumentComponent renders the page boxes of a document. Images must already
// be inlined as data URIs (see InlineImages).
func DocumentComponent(doc Document) templ.Component {
	return documentPages(newDocumentView(doc))
}

// StandaloneComponent renders the document as a complete HTML page
func StandaloneComponent(doc Document) templ.Component {
	return standalonePage(newDocumentView(doc))
}

// RenderDocumentHTML writes the page boxes of a document
func RenderDocumentHTML(ctx context.Context, w io.Writer, doc Document) error {
	if err := DocumentComponent(doc).Render(ctx, w); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	return nil
}

// RenderStandaloneHTML renders a complete HTML page for the export pipeline
func RenderStandaloneHTML(ctx context.Context, doc Document) (string, error) {
	var b strings.Builder
	if err := StandaloneComponent(doc).Render(ctx, &b); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return b.String(), nil
}
