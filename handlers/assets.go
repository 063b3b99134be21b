package handlers

import (
	"errors"
	"log"
	"net/http"

	"surat_pernyataan_go/services"

	"github.com/labstack/echo/v4"
)

// AssetResponse identifies an uploaded letter image
type AssetResponse struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Kind     string `json:"kind"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// UploadAssetHandler stores a signature, stamp or logo image. The returned key
// can be used in place of a data URL in the letter's image fields.
func UploadAssetHandler(c echo.Context) error {
	kind, err := services.ParseAssetKind(c.FormValue("kind"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "errors.invalidKind")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "errors.invalidImage")
	}

	result, err := services.SaveAsset(c.Request().Context(), services.Storage, kind, file)
	if err != nil {
		if errors.Is(err, services.ErrInvalidImage) {
			return errorResponse(c, http.StatusBadRequest, "errors.invalidImage")
		}
		log.Printf("[ERROR] Failed to store %s image: %v", kind, err)
		return errorResponse(c, http.StatusInternalServerError, "errors.storage")
	}

	return c.JSON(http.StatusCreated, AssetResponse{
		Key:      result.Key,
		URL:      result.URL,
		Kind:     string(kind),
		MimeType: result.MimeType,
		Size:     result.Size,
	})
}
