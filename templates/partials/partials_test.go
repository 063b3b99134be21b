package partials

import (
	"context"
	"strings"
	"testing"

	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services"
	"surat_pernyataan_go/services/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "2 MB", FormatFileSize(services.MaxImageUploadSize))
	assert.Equal(t, "512 KB", FormatFileSize(512*1024))
	assert.Equal(t, "10 B", FormatFileSize(10))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "16/10/2026 09:05", formatTimestamp("2026-10-16T09:05:00+07:00"))
	assert.Equal(t, "kemarin", formatTimestamp("kemarin"))
}

func TestPreview(t *testing.T) {
	require.NoError(t, i18n.Load())
	ctx := context.WithValue(context.Background(), i18n.LocaleContextKey, "id")

	body := strings.Repeat(strings.Repeat("x", 900)+"\n", 4) + strings.Repeat("y", 900)
	doc := services.BuildDocument(models.LetterData{Nama: "Budi", Isi: body})

	var b strings.Builder
	require.NoError(t, Preview(doc).Render(ctx, &b))
	out := b.String()

	assert.Contains(t, out, `data-pages="3"`)
	assert.Contains(t, out, "3 halaman")
	assert.Equal(t, 3, strings.Count(out, `class="a4-paper"`))
}

func TestHistoryList(t *testing.T) {
	require.NoError(t, i18n.Load())
	ctx := context.WithValue(context.Background(), i18n.LocaleContextKey, "en")

	t.Run("Empty", func(t *testing.T) {
		var b strings.Builder
		require.NoError(t, HistoryList(nil).Render(ctx, &b))
		assert.Contains(t, b.String(), "No saved history yet.")
	})

	t.Run("Items", func(t *testing.T) {
		items := []models.HistoryItem{
			{ID: 2, Timestamp: "2026-10-16T10:00:00Z", Label: "<b>Kedua</b>"},
			{ID: 1, Timestamp: "2026-10-15T10:00:00Z", Label: "Pertama"},
		}
		var b strings.Builder
		require.NoError(t, HistoryList(items).Render(ctx, &b))
		out := b.String()

		assert.Contains(t, out, `hx-delete="/api/history/2"`)
		assert.Contains(t, out, `data-load-history="1"`)
		assert.Contains(t, out, "&lt;b&gt;Kedua&lt;/b&gt;")
		assert.Less(t, strings.Index(out, "Kedua"), strings.Index(out, "Pertama"))
	})
}
