package pages

import (
	"surat_pernyataan_go/services"

	"github.com/a-h/templ"
)

// StatementPage renders a standalone HTML page of the document, the input of
// the headless rasterizer
func StatementPage(doc services.Document) templ.Component {
	return services.StandaloneComponent(doc)
}
