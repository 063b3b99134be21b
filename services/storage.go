package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"surat_pernyataan_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by Get when nothing is stored under a key
var ErrObjectNotFound = errors.New("object not found")

// StorageProvider holds uploaded letter images and stored PDF exports.
// Everything it stores is small enough to be passed around in memory.
type StorageProvider interface {
	Put(ctx context.Context, key, contentType string, data []byte) (*StorageResult, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	// URL is where a browser can load the object directly, empty when the
	// backend does not serve objects publicly
	URL(key string) string
	Backend() string
}

// StorageResult describes a stored object
type StorageResult struct {
	Key      string
	Size     int64
	MimeType string
	URL      string
}

// Storage is the global storage instance
var Storage StorageProvider

// InitializeStorage uses R2 when fully configured and reachable, local disk otherwise
func InitializeStorage(cfg *config.Config) {
	if !r2Configured(cfg) {
		Storage = NewLocalStorage(cfg.UploadDir)
		log.Printf("Storage ready (local filesystem: %s)", cfg.UploadDir)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r2, err := NewR2Storage(cfg)
	if err == nil {
		err = r2.ping(ctx)
	}
	if err != nil {
		log.Printf("[WARNING] R2 storage unavailable: %v. Falling back to local storage.", err)
		Storage = NewLocalStorage(cfg.UploadDir)
		return
	}

	Storage = r2
	log.Printf("Storage ready (Cloudflare R2 bucket: %s)", cfg.R2BucketName)
}

func r2Configured(cfg *config.Config) bool {
	return cfg.R2AccountID != "" && cfg.R2AccessKeyID != "" && cfg.R2SecretAccessKey != "" && cfg.R2BucketName != ""
}

// R2Storage stores objects in a Cloudflare R2 bucket through the S3 API
type R2Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Storage creates an S3 client for the account's R2 endpoint
func NewR2Storage(cfg *config.Config) (*R2Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Storage{
		client:    client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

func (r *R2Storage) ping(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(r.bucket)})
	return err
}

func (r *R2Storage) Backend() string { return "r2" }

func (r *R2Storage) Put(ctx context.Context, key, contentType string, data []byte) (*StorageResult, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s to R2: %w", key, err)
	}
	return &StorageResult{Key: key, Size: int64(len(data)), MimeType: contentType, URL: r.URL(key)}, nil
}

func (r *R2Storage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, "", fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, "", fmt.Errorf("failed to get %s from R2: %w", key, err)
	}
	return out.Body, aws.ToString(out.ContentType), nil
}

// Delete succeeds for missing keys, R2 treats them as already deleted
func (r *R2Storage) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from R2: %w", key, err)
	}
	return nil
}

func (r *R2Storage) URL(key string) string {
	if r.publicURL == "" {
		return ""
	}
	return r.publicURL + "/" + key
}

// LocalStorage stores objects as files under a base directory
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

func (l *LocalStorage) Backend() string { return "local" }

// path maps a key onto the filesystem, rejecting keys that leave baseDir
func (l *LocalStorage) path(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != key {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.baseDir, filepath.FromSlash(clean)), nil
}

// Put writes through a temporary file so readers never see a partial object
func (l *LocalStorage) Put(ctx context.Context, key, contentType string, data []byte) (*StorageResult, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", key, err)
	}

	return &StorageResult{Key: key, Size: int64(len(data)), MimeType: contentType, URL: l.URL(key)}, nil
}

// Get opens a stored file. The content type comes from the key's extension,
// which upload and export keys always carry.
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, "", fmt.Errorf("failed to open %s: %w", key, err)
	}

	contentType, ok := contentTypeByExt[strings.ToLower(filepath.Ext(key))]
	if !ok {
		contentType = "application/octet-stream"
	}
	return file, contentType, nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// URL points at the static route serving baseDir
func (l *LocalStorage) URL(key string) string {
	return "/" + filepath.ToSlash(filepath.Join(l.baseDir, key))
}

var contentTypeByExt = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// GenerateStorageKey creates a unique key <prefix>/<uuid>_<unix><ext>
func GenerateStorageKey(prefix string, originalFilename string) string {
	filename := fmt.Sprintf("%s_%d%s", uuid.New().String(), time.Now().Unix(), filepath.Ext(originalFilename))
	return path.Join(prefix, filename)
}

// GenerateAssetKey creates a storage key for an uploaded letter image (signature, stamp, logo)
func GenerateAssetKey(kind AssetKind, originalFilename string) string {
	return GenerateStorageKey("assets/"+string(kind), originalFilename)
}

// GenerateExportKey creates a storage key for an exported PDF
func GenerateExportKey() string {
	return GenerateStorageKey("exports", "letter.pdf")
}
