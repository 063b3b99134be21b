package handlers

import (
	"log"
	"net/http"
	"strconv"

	"surat_pernyataan_go/db"
	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services"
	"surat_pernyataan_go/templates/pages"
	"surat_pernyataan_go/templates/partials"

	"github.com/labstack/echo/v4"
)

// inlinedDocument paginates a letter and inlines its images for the browser.
// Images that cannot be resolved are left out of the preview.
func inlinedDocument(c echo.Context, letter models.LetterData) services.Document {
	doc := services.BuildDocument(letter)
	inlined, err := services.InlineImages(c.Request().Context(), services.Storage, doc)
	if err != nil {
		log.Printf("[WARNING] Preview images not resolved: %v", err)
		return doc
	}
	return inlined
}

// IndexHandler renders the form with its live preview. ?history=<id> loads a
// saved entry into the form.
func IndexHandler(c echo.Context) error {
	var letter models.LetterData

	if raw := c.QueryParam("history"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return errorResponse(c, http.StatusBadRequest, "errors.invalidData")
		}
		item, err := services.GetHistoryItem(db.DB, id)
		if err != nil {
			return errorResponse(c, http.StatusNotFound, "errors.notFound")
		}
		letter = item.Data
	}

	history, err := services.GetHistory(db.DB)
	if err != nil {
		log.Printf("[WARNING] Failed to load history: %v", err)
	}

	view := pages.FormView{
		Letter:        letter,
		Document:      inlinedDocument(c, letter),
		History:       history,
		MaxUploadSize: services.MaxImageUploadSize,
	}
	return render(c, pages.FormPage(view))
}

// PreviewHandler returns the paginated document as an HTML fragment. Partially
// typed fields are previewed as they are, validation only runs on export.
func PreviewHandler(c echo.Context) error {
	req, err := bindLetter(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "errors.invalidData")
	}
	return render(c, partials.Preview(inlinedDocument(c, req.LetterData)))
}

// PagesResponse is the pagination of a letter body
type PagesResponse struct {
	Pages []string `json:"pages"`
	Total int      `json:"total"`
}

// PagesHandler splits a letter body into page chunks
func PagesHandler(c echo.Context) error {
	req, err := bindLetter(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "errors.invalidData")
	}

	chunks := services.Paginate(req.Isi)
	return c.JSON(http.StatusOK, PagesResponse{Pages: chunks, Total: len(chunks)})
}

// StatementHandler renders the letter as a standalone A4 document, the same
// markup the rasterizing exporter captures
func StatementHandler(c echo.Context) error {
	req, err := bindLetter(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "errors.invalidData")
	}
	if err := req.Validate(); err != nil {
		return validationResponse(c, err)
	}
	return render(c, pages.StatementPage(inlinedDocument(c, req.LetterData)))
}
