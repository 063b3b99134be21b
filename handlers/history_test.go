package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCreateHistoryHandler(t *testing.T) {
	database := setupTestDB(t)

	t.Run("JSON with label", func(t *testing.T) {
		c, rec := setupJSON(t, http.MethodPost, "/api/history", map[string]interface{}{
			"nama":  "Budi",
			"isi":   "Baris satu\r\nBaris dua",
			"label": "<b>Draf pertama</b>",
		})

		require.NoError(t, CreateHistoryHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var item models.HistoryItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
		assert.Equal(t, "Draf pertama", item.Label)
		assert.Equal(t, "Baris satu\nBaris dua", item.Data.Isi)
		assert.NotZero(t, item.ID)
	})

	t.Run("HTMX form returns the list", func(t *testing.T) {
		c, rec := setupForm(http.MethodPost, "/api/history", url.Values{"nama": {"Siti"}})
		c.Request().Header.Set("HX-Request", "true")

		require.NoError(t, CreateHistoryHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `id="history"`)
		assert.Contains(t, body, "Surat Pernyataan - Siti")
		assert.Contains(t, body, "Draf pertama")
	})

	items, err := services.GetHistory(database)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestListHistoryHandler(t *testing.T) {
	database := setupTestDB(t)

	for _, label := range []string{"lama", "baru"} {
		_, err := services.SaveHistory(database, models.LetterData{Nama: label}, label)
		require.NoError(t, err)
	}

	t.Run("JSON newest first", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/history", nil)

		require.NoError(t, ListHistoryHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var items []models.HistoryItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 2)
		assert.Equal(t, "baru", items[0].Label)
		assert.Equal(t, "lama", items[1].Label)
	})

	t.Run("HTMX partial", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/history", nil)
		c.Request().Header.Set("HX-Request", "true")

		require.NoError(t, ListHistoryHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "data-load-history")
	})
}

func TestGetAndDeleteHistoryHandler(t *testing.T) {
	database := setupTestDB(t)

	item, err := services.SaveHistory(database, models.LetterData{Nama: "Budi", NomorSurat: "001"}, "")
	require.NoError(t, err)
	id := strconv.FormatInt(item.ID, 10)

	t.Run("Get", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/history/"+id, nil)
		c.SetParamNames("id")
		c.SetParamValues(id)

		require.NoError(t, GetHistoryHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.HistoryItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "001", got.Data.NomorSurat)
	})

	t.Run("Get missing", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/history/1", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")

		require.NoError(t, GetHistoryHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Riwayat tidak ditemukan")
	})

	t.Run("Malformed id", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/history/abc", nil)
		c.SetParamNames("id")
		c.SetParamValues("abc")

		require.NoError(t, DeleteHistoryHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/history/"+id, nil)
		c.SetParamNames("id")
		c.SetParamValues(id)

		require.NoError(t, DeleteHistoryHandler(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := services.GetHistoryItem(database, item.ID)
		assert.ErrorIs(t, err, services.ErrHistoryNotFound)
	})

	t.Run("HTMX delete returns the empty list", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/history/"+id, nil)
		c.SetParamNames("id")
		c.SetParamValues(id)
		c.Request().Header.Set("HX-Request", "true")

		require.NoError(t, DeleteHistoryHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `id="history"`)
		assert.NotContains(t, rec.Body.String(), "data-load-history")
	})
}

func TestExportHistoryHandler(t *testing.T) {
	database := setupTestDB(t)

	_, err := services.SaveHistory(database, models.LetterData{Nama: "Budi", Isi: longBody()}, "Panjang")
	require.NoError(t, err)

	_, c, rec := setupEcho(http.MethodGet, "/api/history/export.xlsx", nil)

	require.NoError(t, ExportHistoryHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Riwayat")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Panjang", rows[1][2])
	assert.Equal(t, "3", rows[1][6])
}
