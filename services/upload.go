package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	MaxImageUploadSize = 2 * 1024 * 1024 // 2MB
)

// ErrInvalidImage is returned for uploads and references that are not a supported image
var ErrInvalidImage = errors.New("invalid image")

// AllowedImageTypes maps sniffed MIME types to the extension used in storage keys
var AllowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AssetKind identifies what an uploaded image is used for
type AssetKind string

const (
	AssetSignature AssetKind = "signature"
	AssetStamp     AssetKind = "stamp"
	AssetLogo      AssetKind = "logo"
)

// ParseAssetKind validates an asset kind coming from a form field
func ParseAssetKind(s string) (AssetKind, error) {
	switch kind := AssetKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case AssetSignature, AssetStamp, AssetLogo:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: unknown asset kind %q", ErrInvalidImage, s)
	}
}

// ValidateImageUpload checks the size and sniffed content type of an uploaded image
// and returns the detected MIME type
func ValidateImageUpload(fileHeader *multipart.FileHeader) (string, error) {
	// Check file size
	if fileHeader.Size > MaxImageUploadSize {
		return "", fmt.Errorf("%w: file size exceeds maximum allowed size of 2MB", ErrInvalidImage)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Read first 512 bytes to detect content type
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}

	mimeType := http.DetectContentType(buffer[:n])
	if _, ok := AllowedImageTypes[mimeType]; !ok {
		return "", fmt.Errorf("%w: only PNG, JPG, GIF and WebP images are allowed", ErrInvalidImage)
	}

	return mimeType, nil
}

// imageFileName replaces the client extension with the one matching the sniffed type
func imageFileName(originalFilename, mimeType string) string {
	base := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	return base + AllowedImageTypes[mimeType]
}
