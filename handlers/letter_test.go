package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal PNG signature, enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func longBody() string {
	return strings.Repeat(strings.Repeat("x", 900)+"\n", 4) + strings.Repeat("y", 900)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func setupJSON(t *testing.T, method, path string, v interface{}) (echo.Context, *httptest.ResponseRecorder) {
	_, c, rec := setupEcho(method, path, jsonBody(t, v))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return c, rec
}

func setupForm(method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	_, c, rec := setupEcho(method, path, strings.NewReader(form.Encode()))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return c, rec
}

func TestBindLetter(t *testing.T) {
	want := models.LetterData{Nama: "Budi Santoso", NIK: "3201010101010001", Isi: "satu\ndua"}

	t.Run("JSON body", func(t *testing.T) {
		c, _ := setupJSON(t, http.MethodPost, "/api/pages", map[string]interface{}{
			"nama":  "  Budi Santoso ",
			"nik":   "3201010101010001",
			"isi":   "satu\r\ndua",
			"email": " budi@example.com ",
		})
		req, err := bindLetter(c)
		require.NoError(t, err)
		assert.Equal(t, want, req.LetterData)
		assert.Equal(t, "budi@example.com", req.Email)
	})

	t.Run("JSON in data field", func(t *testing.T) {
		raw, err := json.Marshal(want)
		require.NoError(t, err)
		c, _ := setupForm(http.MethodPost, "/api/export", url.Values{"data": {string(raw)}, "label": {"Draf"}})

		req, err := bindLetter(c)
		require.NoError(t, err)
		assert.Equal(t, want, req.LetterData)
		assert.Equal(t, "Draf", req.Label)
	})

	t.Run("Form fields", func(t *testing.T) {
		c, _ := setupForm(http.MethodPost, "/preview", url.Values{
			"nama":            {"Budi Santoso"},
			"nik":             {"3201010101010001"},
			"isi":             {"satu\r\ndua"},
			"kopEnabled":      {"true"},
			"kopNamaInstansi": {"PT Maju"},
			"signatureUrl":    {"data:image/png;base64,AAAA"},
			"stampUrl":        {""},
		})

		req, err := bindLetter(c)
		require.NoError(t, err)
		assert.Equal(t, "satu\ndua", req.Isi)
		assert.True(t, req.KopSurat.Enabled)
		assert.Equal(t, "PT Maju", req.KopSurat.NamaInstansi)
		require.NotNil(t, req.SignatureURL)
		assert.Equal(t, "data:image/png;base64,AAAA", *req.SignatureURL)
		assert.Nil(t, req.StampURL)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodPost, "/api/pages", strings.NewReader("{"))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		_, err := bindLetter(c)
		assert.Error(t, err)
	})
}

func TestPagesHandler(t *testing.T) {
	setupTestDB(t)

	t.Run("Long body", func(t *testing.T) {
		body := longBody()
		c, rec := setupJSON(t, http.MethodPost, "/api/pages", map[string]string{"isi": body})

		require.NoError(t, PagesHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp PagesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Total)
		assert.Len(t, resp.Pages, 3)
		assert.Equal(t, body, services.JoinPages(resp.Pages))
	})

	t.Run("Empty body is one page", func(t *testing.T) {
		c, rec := setupJSON(t, http.MethodPost, "/api/pages", map[string]string{})

		require.NoError(t, PagesHandler(c))

		var resp PagesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, []string{""}, resp.Pages)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/pages", strings.NewReader("not json"))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		require.NoError(t, PagesHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "error")
	})
}

func TestPreviewHandler(t *testing.T) {
	setupTestDB(t)

	t.Run("Renders pages", func(t *testing.T) {
		c, rec := setupForm(http.MethodPost, "/preview", url.Values{
			"nama": {"Budi <Santoso>"},
			"isi":  {longBody()},
		})
		c.Request().Header.Set("HX-Request", "true")

		require.NoError(t, PreviewHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `data-pages="3"`)
		assert.Contains(t, body, "3 halaman")
		assert.Equal(t, 3, strings.Count(body, `class="a4-paper"`))
		assert.Contains(t, body, "Budi &lt;Santoso&gt;")
	})

	t.Run("Invalid fields are still previewed", func(t *testing.T) {
		c, rec := setupForm(http.MethodPost, "/preview", url.Values{"nik": {"123"}, "tanggalSurat": {"2026-1"}})

		require.NoError(t, PreviewHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-pages="1"`)
	})

	t.Run("Stored images are inlined", func(t *testing.T) {
		_, err := services.Storage.Put(context.Background(), "assets/signature/ttd.png", "image/png", pngBytes)
		require.NoError(t, err)

		c, rec := setupJSON(t, http.MethodPost, "/preview", map[string]interface{}{
			"nama":         "Budi",
			"signatureUrl": "assets/signature/ttd.png",
		})

		require.NoError(t, PreviewHandler(c))
		assert.Contains(t, rec.Body.String(), "data:image/png;base64,")
	})

	t.Run("Missing stored image is left out", func(t *testing.T) {
		c, rec := setupJSON(t, http.MethodPost, "/preview", map[string]interface{}{
			"nama":         "Budi",
			"signatureUrl": "assets/signature/missing.png",
		})

		require.NoError(t, PreviewHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "data:image/png;base64,")
	})
}

func TestIndexHandler(t *testing.T) {
	database := setupTestDB(t)

	item, err := services.SaveHistory(database, models.LetterData{Nama: "Siti Aminah", Isi: "Isi tersimpan"}, "Draf Siti")
	require.NoError(t, err)

	t.Run("Empty form", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)

		require.NoError(t, IndexHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
		body := rec.Body.String()
		assert.Contains(t, body, `id="letter-form"`)
		assert.Contains(t, body, "Draf Siti")
		assert.NotContains(t, body, "Isi tersimpan")
	})

	t.Run("Load from history", func(t *testing.T) {
		path := "/?history=" + strconv.FormatInt(item.ID, 10)
		_, c, rec := setupEcho(http.MethodGet, path, nil)

		require.NoError(t, IndexHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Isi tersimpan")
	})

	t.Run("Unknown history entry", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/?history=42", nil)

		require.NoError(t, IndexHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Malformed history id", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/?history=abc", nil)

		require.NoError(t, IndexHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatementHandler(t *testing.T) {
	setupTestDB(t)

	t.Run("Standalone document", func(t *testing.T) {
		c, rec := setupJSON(t, http.MethodPost, "/print", map[string]string{"nama": "Budi", "isi": "Saya menyatakan."})

		require.NoError(t, StatementHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(strings.TrimSpace(body), "<!DOCTYPE html>"))
		assert.Contains(t, body, "Saya menyatakan.")
	})

	t.Run("Validation errors", func(t *testing.T) {
		c, rec := setupJSON(t, http.MethodPost, "/print", map[string]string{"nik": "12", "tanggalSurat": "16-10-2026"})

		require.NoError(t, StatementHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
		assert.Contains(t, resp.Fields, "nik")
		assert.Contains(t, resp.Fields, "tanggalSurat")
	})
}
