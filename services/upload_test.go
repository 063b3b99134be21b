package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n")
	gifHeader = []byte("GIF89a")
)

func createMockFileHeader(filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(10 * 1024 * 1024)
	return form.File["file"][0]
}

func TestValidateImageUpload(t *testing.T) {
	t.Run("Valid PNG", func(t *testing.T) {
		content := append(append([]byte{}, pngHeader...), make([]byte, 100)...)
		mimeType, err := ValidateImageUpload(createMockFileHeader("ttd.png", content))
		assert.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)
	})

	t.Run("Type comes from content not extension", func(t *testing.T) {
		content := append(append([]byte{}, gifHeader...), make([]byte, 100)...)
		mimeType, err := ValidateImageUpload(createMockFileHeader("stempel.png", content))
		assert.NoError(t, err)
		assert.Equal(t, "image/gif", mimeType)
	})

	t.Run("PDF is rejected", func(t *testing.T) {
		content := append([]byte("%PDF-1.4\n"), make([]byte, 100)...)
		_, err := ValidateImageUpload(createMockFileHeader("ttd.png", content))
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("Too large", func(t *testing.T) {
		content := append(append([]byte{}, pngHeader...), make([]byte, MaxImageUploadSize)...)
		_, err := ValidateImageUpload(createMockFileHeader("big.png", content))
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}

func TestParseAssetKind(t *testing.T) {
	kind, err := ParseAssetKind(" Signature ")
	require.NoError(t, err)
	assert.Equal(t, AssetSignature, kind)

	kind, err = ParseAssetKind("logo")
	require.NoError(t, err)
	assert.Equal(t, AssetLogo, kind)

	_, err = ParseAssetKind("avatar")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestImageFileName(t *testing.T) {
	assert.Equal(t, "ttd.jpg", imageFileName("ttd.jpeg", "image/jpeg"))
	assert.Equal(t, "scan.png", imageFileName("dir/scan", "image/png"))
}
