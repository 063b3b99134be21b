package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"surat_pernyataan_go/db"
	"surat_pernyataan_go/services"
	"surat_pernyataan_go/templates/partials"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func historyID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// historyList answers with the refreshed list partial for HTMX requests and
// with the JSON list otherwise
func historyList(c echo.Context, status int) error {
	items, err := services.GetHistory(db.DB)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return errorResponse(c, http.StatusInternalServerError, "errors.internal")
	}
	if isHTMX(c) {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(status)
		return render(c, partials.HistoryList(items))
	}
	return c.JSON(status, items)
}

// ListHistoryHandler returns all saved letters, newest first
func ListHistoryHandler(c echo.Context) error {
	return historyList(c, http.StatusOK)
}

// CreateHistoryHandler saves the posted letter under an optional label
func CreateHistoryHandler(c echo.Context) error {
	req, err := bindLetter(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "errors.invalidData")
	}

	item, err := services.SaveHistory(db.DB, req.LetterData, req.Label)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return errorResponse(c, http.StatusInternalServerError, "errors.internal")
	}

	if isHTMX(c) {
		return historyList(c, http.StatusOK)
	}
	return c.JSON(http.StatusCreated, item)
}

// GetHistoryHandler returns one saved letter
func GetHistoryHandler(c echo.Context) error {
	id, ok := historyID(c)
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "errors.invalidData")
	}

	item, err := services.GetHistoryItem(db.DB, id)
	if err != nil {
		if errors.Is(err, services.ErrHistoryNotFound) {
			return errorResponse(c, http.StatusNotFound, "errors.notFound")
		}
		log.Printf("[ERROR] %v", err)
		return errorResponse(c, http.StatusInternalServerError, "errors.internal")
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteHistoryHandler removes a saved letter
func DeleteHistoryHandler(c echo.Context) error {
	id, ok := historyID(c)
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "errors.invalidData")
	}

	if err := services.DeleteHistory(db.DB, id); err != nil {
		log.Printf("[ERROR] %v", err)
		return errorResponse(c, http.StatusInternalServerError, "errors.internal")
	}

	if isHTMX(c) {
		return historyList(c, http.StatusOK)
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportHistoryHandler downloads the history as an Excel workbook
func ExportHistoryHandler(c echo.Context) error {
	items, err := services.GetHistory(db.DB)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return errorResponse(c, http.StatusInternalServerError, "errors.internal")
	}

	buf, err := services.ExportHistoryXLSX(c.Request().Context(), items)
	if err != nil {
		log.Printf("[ERROR] Failed to build history workbook: %v", err)
		return errorResponse(c, http.StatusInternalServerError, "errors.internal")
	}

	fileName := "riwayat_surat_" + time.Now().Format("20060102") + ".xlsx"
	c.Response().Header().Set("Content-Disposition", attachmentDisposition(fileName))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
