package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultJudulSurat is the title printed when the letter has none
const DefaultJudulSurat = "SURAT PERNYATAAN"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nikPattern    = regexp.MustCompile(`^[0-9]{16}$`)
)

// KopSurat is the optional letterhead printed at the top of the first page
type KopSurat struct {
	Enabled      bool    `json:"enabled"`
	NamaInstansi string  `json:"namaInstansi"`
	Alamat       string  `json:"alamat"`
	Kontak       string  `json:"kontak"`
	LogoURL      *string `json:"logoUrl"`
}

// LetterData holds everything needed to render one statement letter.
// Image fields are either data: URLs or storage keys from the asset upload endpoint.
type LetterData struct {
	// Identitas
	Nama      string `json:"nama"`
	NIK       string `json:"nik"`
	Pekerjaan string `json:"pekerjaan"`
	Alamat    string `json:"alamat"`

	// Info Surat
	JudulSurat   string `json:"judulSurat"`
	NomorSurat   string `json:"nomorSurat"`
	TempatSurat  string `json:"tempatSurat"`
	TanggalSurat string `json:"tanggalSurat"` // YYYY-MM-DD

	// Isi
	Isi string `json:"isi"`

	// Legalitas
	SignatureURL *string  `json:"signatureUrl"`
	StampURL     *string  `json:"stampUrl"`
	KopSurat     KopSurat `json:"kopSurat"`
}

// ValidationError lists the fields that failed validation
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid letter data: " + strings.Join(parts, "; ")
}

// Normalize converts browser line endings in the body to \n and trims the
// single-line fields. The body text is otherwise left untouched.
func (d *LetterData) Normalize() {
	d.Isi = strings.ReplaceAll(d.Isi, "\r\n", "\n")
	d.Isi = strings.ReplaceAll(d.Isi, "\r", "\n")

	d.Nama = strings.TrimSpace(d.Nama)
	d.NIK = strings.TrimSpace(d.NIK)
	d.Pekerjaan = strings.TrimSpace(d.Pekerjaan)
	d.JudulSurat = strings.TrimSpace(d.JudulSurat)
	d.NomorSurat = strings.TrimSpace(d.NomorSurat)
	d.TempatSurat = strings.TrimSpace(d.TempatSurat)
	d.TanggalSurat = strings.TrimSpace(d.TanggalSurat)
}

// Validate checks the fields that have a fixed format. Empty fields are allowed,
// the preview renders placeholders for them.
func (d *LetterData) Validate() error {
	fields := map[string]string{}

	if d.TanggalSurat != "" {
		if _, err := time.Parse("2006-01-02", d.TanggalSurat); err != nil {
			fields["tanggalSurat"] = "expected YYYY-MM-DD"
		}
	}
	if d.NIK != "" && !nikPattern.MatchString(d.NIK) {
		fields["nik"] = "must be 16 digits"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Title returns the letter title or the default one
func (d *LetterData) Title() string {
	if d.JudulSurat == "" {
		return DefaultJudulSurat
	}
	return d.JudulSurat
}

// FileName returns the export file name without extension
func (d *LetterData) FileName() string {
	return "Surat_Pernyataan_" + whitespaceRun.ReplaceAllString(d.Nama, "_")
}

// HasSignature reports whether a signature image is attached
func (d *LetterData) HasSignature() bool {
	return d.SignatureURL != nil && *d.SignatureURL != ""
}

// HasStamp reports whether a stamp image is attached
func (d *LetterData) HasStamp() bool {
	return d.StampURL != nil && *d.StampURL != ""
}

// HasLogo reports whether the letterhead is enabled and has a logo
func (k *KopSurat) HasLogo() bool {
	return k.LogoURL != nil && *k.LogoURL != ""
}
