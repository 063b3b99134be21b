package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

// ErrImageNotFound is returned when a referenced image cannot be loaded from storage
var ErrImageNotFound = errors.New("image not found")

// Image is a resolved image reference
type Image struct {
	Data     []byte
	MimeType string
}

// DataURI encodes the image as a data: URL
func (i Image) DataURI() string {
	return "data:" + i.MimeType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// SaveAsset validates an uploaded image and stores it under assets/<kind>/
func SaveAsset(ctx context.Context, storage StorageProvider, kind AssetKind, file *multipart.FileHeader) (*StorageResult, error) {
	mimeType, err := ValidateImageUpload(file)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxImageUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxImageUploadSize {
		return nil, fmt.Errorf("%w: image too large", ErrInvalidImage)
	}

	key := GenerateAssetKey(kind, imageFileName(file.Filename, mimeType))
	return storage.Put(ctx, key, mimeType, data)
}

// ResolveImage loads an image reference, either a data: URL or a storage key
// under assets/
func ResolveImage(ctx context.Context, storage StorageProvider, ref string) (*Image, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}

	key := path.Clean(ref)
	if !strings.HasPrefix(key, "assets/") || strings.Contains(key, "..") {
		return nil, fmt.Errorf("%w: unsupported reference", ErrInvalidImage)
	}
	if storage == nil {
		return nil, fmt.Errorf("%w: storage not configured", ErrImageNotFound)
	}

	reader, _, err := storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageNotFound, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, MaxImageUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageUploadSize {
		return nil, fmt.Errorf("%w: image too large", ErrInvalidImage)
	}

	return sniffImage(data)
}

// decodeDataURL decodes a base64 data: URL as produced by FileReader.readAsDataURL
func decodeDataURL(ref string) (*Image, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: data URL must be base64 encoded", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) > MaxImageUploadSize {
		return nil, fmt.Errorf("%w: image too large", ErrInvalidImage)
	}

	return sniffImage(data)
}

func sniffImage(data []byte) (*Image, error) {
	mimeType := http.DetectContentType(data)
	if _, ok := AllowedImageTypes[mimeType]; !ok {
		return nil, fmt.Errorf("%w: unsupported type %s", ErrInvalidImage, mimeType)
	}
	return &Image{Data: data, MimeType: mimeType}, nil
}

// ResolvedImages holds the images a document needs, nil when absent
type ResolvedImages struct {
	Logo      *Image
	Signature *Image
	Stamp     *Image
}

// ResolveDocumentImages loads the letterhead logo, signature and stamp of a
// letter. The logo is only loaded when the letterhead is enabled.
func ResolveDocumentImages(ctx context.Context, storage StorageProvider, doc Document) (ResolvedImages, error) {
	var images ResolvedImages
	var err error

	letter := doc.Letter
	if letter.KopSurat.Enabled && letter.KopSurat.HasLogo() {
		if images.Logo, err = ResolveImage(ctx, storage, *letter.KopSurat.LogoURL); err != nil {
			return images, fmt.Errorf("logo: %w", err)
		}
	}
	if letter.HasSignature() {
		if images.Signature, err = ResolveImage(ctx, storage, *letter.SignatureURL); err != nil {
			return images, fmt.Errorf("signature: %w", err)
		}
	}
	if letter.HasStamp() {
		if images.Stamp, err = ResolveImage(ctx, storage, *letter.StampURL); err != nil {
			return images, fmt.Errorf("stamp: %w", err)
		}
	}

	return images, nil
}

// InlineImages returns a copy of the document whose image references are data
// URIs, so the rendered HTML needs no network access
func InlineImages(ctx context.Context, storage StorageProvider, doc Document) (Document, error) {
	images, err := ResolveDocumentImages(ctx, storage, doc)
	if err != nil {
		return doc, err
	}

	inline := func(img *Image) *string {
		if img == nil {
			return nil
		}
		uri := img.DataURI()
		return &uri
	}

	out := doc
	out.Letter.KopSurat.LogoURL = inline(images.Logo)
	out.Letter.SignatureURL = inline(images.Signature)
	out.Letter.StampURL = inline(images.Stamp)
	return out, nil
}
