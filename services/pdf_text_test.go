package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"surat_pernyataan_go/config"
	"surat_pernyataan_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextExporter(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage(t.TempDir())
	exporter := NewTextExporter(storage)
	assert.Equal(t, config.ExportModeText, exporter.Mode())

	t.Run("Empty letter still exports one page", func(t *testing.T) {
		pdf, err := exporter.Export(ctx, BuildDocument(models.LetterData{}))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(pdf), "%PDF-"))
		assert.Equal(t, 1, countPDFPages(pdf))
	})

	t.Run("One PDF page per paginated page", func(t *testing.T) {
		body := strings.Repeat(strings.Repeat("Saya bersedia dituntut. ", 40)+"\n", 8)
		doc := BuildDocument(models.LetterData{
			Nama:         "Siti Aminah",
			TanggalSurat: "2026-10-16",
			Isi:          body,
			KopSurat:     models.KopSurat{Enabled: true, NamaInstansi: "Koperasi Sejahtera", Alamat: "Jl. Merdeka 1", Kontak: "022-123"},
		})
		require.Greater(t, doc.PageCount(), 1)

		pdf, err := exporter.Export(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, doc.PageCount(), countPDFPages(pdf))
	})

	t.Run("Images from data URLs and storage", func(t *testing.T) {
		sig := testDataURL(t)
		stampKey := "assets/stamp/cap.png"
		data := testPNG(t)
		_, err := storage.Put(ctx, stampKey, "image/png", data)
		require.NoError(t, err)

		logo := testDataURL(t)
		doc := BuildDocument(models.LetterData{
			Nama:         "Budi",
			SignatureURL: &sig,
			StampURL:     &stampKey,
			KopSurat:     models.KopSurat{Enabled: true, NamaInstansi: "PT Maju", LogoURL: &logo},
		})

		pdf, err := exporter.Export(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, 3, bytes.Count(pdf, []byte("/Subtype /Image")))
	})

	t.Run("Broken image reference fails the export", func(t *testing.T) {
		missing := "assets/signature/missing.png"
		_, err := exporter.Export(ctx, BuildDocument(models.LetterData{SignatureURL: &missing}))
		assert.ErrorIs(t, err, ErrExportFailed)
	})
}
