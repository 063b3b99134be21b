package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"surat_pernyataan_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPNG encodes a small solid image
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 40, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testDataURL(t *testing.T) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t))
}

func TestResolveImage(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage(t.TempDir())

	t.Run("Data URL", func(t *testing.T) {
		img, err := ResolveImage(ctx, storage, testDataURL(t))
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MimeType)
		assert.Equal(t, testPNG(t), img.Data)
	})

	t.Run("Data URL round trip", func(t *testing.T) {
		img, err := ResolveImage(ctx, storage, testDataURL(t))
		require.NoError(t, err)
		assert.Equal(t, testDataURL(t), img.DataURI())
	})

	t.Run("Non base64 data URL", func(t *testing.T) {
		_, err := ResolveImage(ctx, storage, "data:image/svg+xml,<svg/>")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("Data URL with non image payload", func(t *testing.T) {
		ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 nope"))
		_, err := ResolveImage(ctx, storage, ref)
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("Storage key", func(t *testing.T) {
		key := "assets/signature/ttd.png"
		data := testPNG(t)
		_, err := storage.Put(ctx, key, "image/png", data)
		require.NoError(t, err)

		img, err := ResolveImage(ctx, storage, key)
		require.NoError(t, err)
		assert.Equal(t, data, img.Data)
	})

	t.Run("Missing key", func(t *testing.T) {
		_, err := ResolveImage(ctx, storage, "assets/stamp/missing.png")
		assert.ErrorIs(t, err, ErrImageNotFound)
	})

	t.Run("Keys outside assets are refused", func(t *testing.T) {
		_, err := ResolveImage(ctx, storage, "assets/../../etc/passwd")
		assert.ErrorIs(t, err, ErrInvalidImage)

		_, err = ResolveImage(ctx, storage, "exports/x.pdf")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}

func TestInlineImages(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage(t.TempDir())

	data := testPNG(t)
	key := "assets/stamp/cap.png"
	_, err := storage.Put(ctx, key, "image/png", data)
	require.NoError(t, err)

	sig := testDataURL(t)
	logo := testDataURL(t)
	letter := models.LetterData{
		Nama:         "Budi",
		SignatureURL: &sig,
		StampURL:     &key,
		KopSurat:     models.KopSurat{Enabled: false, LogoURL: &logo},
	}

	doc, err := InlineImages(ctx, storage, BuildDocument(letter))
	require.NoError(t, err)

	require.NotNil(t, doc.Letter.SignatureURL)
	require.NotNil(t, doc.Letter.StampURL)
	assert.Equal(t, sig, *doc.Letter.SignatureURL)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data), *doc.Letter.StampURL)
	assert.Nil(t, doc.Letter.KopSurat.LogoURL, "logo of a disabled letterhead is not loaded")

	// the input letter is untouched
	assert.Equal(t, key, *letter.StampURL)
}

func TestSaveAsset(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage(t.TempDir())

	result, err := SaveAsset(ctx, storage, AssetLogo, createMockFileHeader("logo.jpeg", testPNG(t)))
	require.NoError(t, err)
	assert.Contains(t, result.Key, "assets/logo/")
	assert.Contains(t, result.Key, ".png")
	assert.Equal(t, int64(len(testPNG(t))), result.Size)
	assert.True(t, strings.HasSuffix(result.URL, result.Key))

	img, err := ResolveImage(ctx, storage, result.Key)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
}
