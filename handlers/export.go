package handlers

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"net/mail"
	"time"

	"surat_pernyataan_go/db"
	"surat_pernyataan_go/services"
	"surat_pernyataan_go/services/i18n"

	"github.com/labstack/echo/v4"
)

func attachmentDisposition(fileName string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}

// bindValidLetter binds and validates the posted letter. A nil request means
// the error response was already written.
func bindValidLetter(c echo.Context) (*letterRequest, error) {
	req, err := bindLetter(c)
	if err != nil {
		return nil, errorResponse(c, http.StatusBadRequest, "errors.invalidData")
	}
	if err := req.Validate(); err != nil {
		return nil, validationResponse(c, err)
	}
	return &req, nil
}

// exportPDF exports a letter through the configured exporter and cache. A nil
// PDF means the error response was already written.
func exportPDF(c echo.Context, req *letterRequest) ([]byte, error) {
	pdf, err := services.ExportLetter(c.Request().Context(), services.Exporter, services.PDFCache, req.LetterData)
	if err != nil {
		log.Printf("[ERROR] PDF export failed: %v", err)
		if errors.Is(err, services.ErrExportFailed) {
			return nil, errorResponse(c, http.StatusInternalServerError, "errors.export")
		}
		return nil, errorResponse(c, http.StatusInternalServerError, "errors.internal")
	}
	return pdf, nil
}

// StoredExportResponse points at a stored export behind a signed link
type StoredExportResponse struct {
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	FileName  string    `json:"fileName"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportHandler renders the letter to PDF and sends it as an attachment named
// <FileName>.pdf. With ?store=1 the PDF is kept in storage and a signed
// download link is returned instead.
func ExportHandler(c echo.Context) error {
	req, err := bindValidLetter(c)
	if req == nil {
		return err
	}
	pdf, err := exportPDF(c, req)
	if pdf == nil {
		return err
	}
	fileName := req.FileName() + ".pdf"

	if c.QueryParam("store") != "1" {
		c.Response().Header().Set("Content-Disposition", attachmentDisposition(fileName))
		return c.Blob(http.StatusOK, "application/pdf", pdf)
	}

	cfg := getConfig(c)
	ctx := c.Request().Context()

	key, err := services.StoreExport(ctx, services.Storage, pdf)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return errorResponse(c, http.StatusInternalServerError, "errors.storage")
	}

	ttl := cfg.DownloadLinkTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	token, err := services.GenerateDownloadToken(cfg.DownloadSecret, key, fileName, ttl)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return errorResponse(c, http.StatusInternalServerError, "errors.internal")
	}

	expiresAt := time.Now().Add(ttl).UTC()
	if err := services.RecordStoredExport(db.DB, key, fileName, int64(len(pdf)), expiresAt); err != nil {
		log.Printf("[WARNING] %v", err)
	}

	return c.JSON(http.StatusCreated, StoredExportResponse{
		URL:       "/api/downloads/" + token,
		Token:     token,
		FileName:  fileName,
		ExpiresAt: expiresAt,
	})
}

// ExportEmailHandler renders the letter and sends the PDF to the posted email address
func ExportEmailHandler(c echo.Context) error {
	req, err := bindValidLetter(c)
	if req == nil {
		return err
	}

	if req.Email == "" {
		return errorResponse(c, http.StatusBadRequest, "errors.emailRequired")
	}
	address, err := mail.ParseAddress(req.Email)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "errors.emailRequired")
	}

	pdf, err := exportPDF(c, req)
	if pdf == nil {
		return err
	}

	ctx := c.Request().Context()
	email, err := services.BuildStatementEmail(ctx, address.Address, req.LetterData, pdf)
	if err != nil {
		log.Printf("[ERROR] Failed to build statement email: %v", err)
		return errorResponse(c, http.StatusInternalServerError, "errors.email")
	}
	if err := services.SendEmail(getConfig(c), email); err != nil {
		log.Printf("[ERROR] Failed to send statement email: %v", err)
		return errorResponse(c, http.StatusBadGateway, "errors.email")
	}

	message := i18n.T(ctx, "email.sent", map[string]interface{}{"email": address.Address})
	if isHTMX(c) {
		return alert(c, http.StatusOK, "success", message)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "sent", "message": message})
}

// DownloadHandler streams a stored export named by a signed download token
func DownloadHandler(c echo.Context) error {
	claims, err := services.ParseDownloadToken(getConfig(c).DownloadSecret, c.Param("token"))
	if err != nil {
		return errorResponse(c, http.StatusForbidden, "errors.invalidToken")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), claims.Key)
	if errors.Is(err, services.ErrObjectNotFound) {
		return errorResponse(c, http.StatusNotFound, "errors.exportNotFound")
	}
	if err != nil {
		log.Printf("[ERROR] Failed to read stored export %s: %v", claims.Key, err)
		return errorResponse(c, http.StatusInternalServerError, "errors.storage")
	}
	defer reader.Close()

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "application/pdf"
	}

	c.Response().Header().Set("Content-Disposition", attachmentDisposition(claims.FileName))
	return c.Stream(http.StatusOK, contentType, reader)
}
