package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"surat_pernyataan_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadAsset(t *testing.T, kind, fileName string, content []byte) (int, string) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("kind", kind))
	if content != nil {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	_, c, rec := setupEcho(http.MethodPost, "/api/assets", &body)
	c.Request().Header.Set(echo.HeaderContentType, writer.FormDataContentType())

	require.NoError(t, UploadAssetHandler(c))
	return rec.Code, rec.Body.String()
}

func TestUploadAssetHandler(t *testing.T) {
	setupTestDB(t)

	t.Run("Signature image", func(t *testing.T) {
		code, body := uploadAsset(t, "signature", "ttd.jpeg", pngBytes)
		assert.Equal(t, http.StatusCreated, code)

		var resp AssetResponse
		require.NoError(t, json.Unmarshal([]byte(body), &resp))
		assert.True(t, strings.HasPrefix(resp.Key, "assets/signature/"))
		assert.True(t, strings.HasSuffix(resp.Key, ".png"), "extension follows the sniffed type")
		assert.Equal(t, "signature", resp.Kind)
		assert.Equal(t, "image/png", resp.MimeType)
		assert.NotEmpty(t, resp.URL)

		img, err := services.ResolveImage(context.Background(), services.Storage, resp.Key)
		require.NoError(t, err)
		assert.Equal(t, pngBytes, img.Data)
	})

	t.Run("Unknown kind", func(t *testing.T) {
		code, body := uploadAsset(t, "photo", "a.png", pngBytes)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body, "error")
	})

	t.Run("Missing file", func(t *testing.T) {
		code, _ := uploadAsset(t, "stamp", "", nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("Not an image", func(t *testing.T) {
		code, _ := uploadAsset(t, "logo", "logo.png", []byte("%PDF-1.4 not an image"))
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
