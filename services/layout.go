package services

import (
	"surat_pernyataan_go/models"
)

// PlaceholderTempat is printed when the letter has no place
const PlaceholderTempat = "......."

// PlaceholderNama is printed under the signature when the letter has no signer name
const PlaceholderNama = "(Nama Lengkap)"

// Page is one physical A4 page of a rendered letter
type Page struct {
	Index   int // 0-based
	Number  int // 1-based, for "Halaman i dari N"
	Total   int
	Content string
	IsFirst bool // carries letterhead, title and identity block
	IsLast  bool // carries the signature block
}

// Document is a letter projected onto pages
type Document struct {
	Letter        models.LetterData
	Pages         []Page
	FormattedDate string
}

// BuildDocument paginates the letter body and marks which page carries the
// front matter and which one carries the signature. It is recomputed from
// scratch on every call.
func BuildDocument(data models.LetterData) Document {
	contents := Paginate(data.Isi)
	pages := make([]Page, len(contents))
	for i, content := range contents {
		pages[i] = Page{
			Index:   i,
			Number:  i + 1,
			Total:   len(contents),
			Content: content,
			IsFirst: i == 0,
			IsLast:  i == len(contents)-1,
		}
	}

	return Document{
		Letter:        data,
		Pages:         pages,
		FormattedDate: FormatDateIndo(data.TanggalSurat),
	}
}

// PageCount returns the number of pages
func (d Document) PageCount() int {
	return len(d.Pages)
}

// Tempat returns the place printed above the signature
func (d Document) Tempat() string {
	if d.Letter.TempatSurat == "" {
		return PlaceholderTempat
	}
	return d.Letter.TempatSurat
}

// SignerName returns the name printed under the signature
func (d Document) SignerName() string {
	if d.Letter.Nama == "" {
		return PlaceholderNama
	}
	return d.Letter.Nama
}
