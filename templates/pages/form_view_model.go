package pages

import (
	"context"

	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services"
	"surat_pernyataan_go/services/i18n"
	"surat_pernyataan_go/templates/partials"
)

// FormView holds the data for the form and preview page
type FormView struct {
	Letter models.LetterData
	// Document is the paginated letter with images inlined as data URIs
	Document      services.Document
	History       []models.HistoryItem
	MaxUploadSize int64
}

func ref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// SignatureRef is the raw signature reference posted back with the form
func (v FormView) SignatureRef() string { return ref(v.Letter.SignatureURL) }

// StampRef is the raw stamp reference posted back with the form
func (v FormView) StampRef() string { return ref(v.Letter.StampURL) }

// LogoRef is the raw letterhead logo reference posted back with the form
func (v FormView) LogoRef() string { return ref(v.Letter.KopSurat.LogoURL) }

// SignatureSrc is the thumbnail source of the signature
func (v FormView) SignatureSrc() string {
	return services.InlineImageURL(v.Document.Letter.SignatureURL)
}

// StampSrc is the thumbnail source of the stamp
func (v FormView) StampSrc() string {
	return services.InlineImageURL(v.Document.Letter.StampURL)
}

// LogoSrc is the thumbnail source of the letterhead logo
func (v FormView) LogoSrc() string {
	return services.InlineImageURL(v.Document.Letter.KopSurat.LogoURL)
}

func (v FormView) maxSizeHint(ctx context.Context) string {
	return i18n.T(ctx, "form.maxSize", map[string]interface{}{
		"size": partials.FormatFileSize(v.MaxUploadSize),
	})
}

// formConfig is read by the page script
type formConfig struct {
	MaxUpload int64             `json:"maxUpload"`
	Messages  map[string]string `json:"messages"`
}

func (v FormView) config(ctx context.Context) formConfig {
	return formConfig{
		MaxUpload: v.MaxUploadSize,
		Messages: map[string]string{
			"tooLarge":   i18n.T(ctx, "errors.invalidImage"),
			"loadFailed": i18n.T(ctx, "errors.notFound"),
		},
	}
}
