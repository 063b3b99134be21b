package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"surat_pernyataan_go/config"
	"surat_pernyataan_go/models"

	"github.com/redis/go-redis/v9"
)

const exportCachePrefix = "surat:pdf:"

// ExportCache keeps recently exported PDFs in Redis. A nil *ExportCache is a
// valid, disabled cache.
type ExportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExportCache connects to Redis when REDIS_ADDR is set and returns nil otherwise
func NewExportCache(cfg *config.Config) *ExportCache {
	if cfg.RedisAddr == "" {
		log.Println("[INFO] Export cache disabled (REDIS_ADDR not set)")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ttl := cfg.ExportCacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	log.Printf("[INFO] Export cache enabled (redis %s, ttl %s)", cfg.RedisAddr, ttl)
	return &ExportCache{client: client, ttl: ttl}
}

// ExportCacheKey derives the cache key of a letter rendered by an exporter mode.
// Letters are normalized first so CRLF and LF submissions share an entry.
func ExportCacheKey(letter models.LetterData, mode string) (string, error) {
	letter.Normalize()
	payload, err := json.Marshal(letter)
	if err != nil {
		return "", fmt.Errorf("failed to encode letter: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(mode))
	h.Write([]byte{0})
	h.Write(payload)
	return exportCachePrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns a cached PDF
func (c *ExportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("[WARNING] Export cache read failed: %v", err)
		return nil, false
	}
	return data, true
}

// Set stores a PDF for the cache TTL. Failures are logged, never returned.
func (c *ExportCache) Set(ctx context.Context, key string, pdf []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, pdf, c.ttl).Err(); err != nil {
		log.Printf("[WARNING] Export cache write failed: %v", err)
	}
}

// Close releases the Redis connection pool
func (c *ExportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// ExportLetter paginates and exports a letter, serving repeated exports of the
// same letter from the cache
func ExportLetter(ctx context.Context, exporter PDFExporter, cache *ExportCache, letter models.LetterData) ([]byte, error) {
	key, err := ExportCacheKey(letter, exporter.Mode())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	if pdf, ok := cache.Get(ctx, key); ok {
		return pdf, nil
	}

	pdf, err := exporter.Export(ctx, BuildDocument(letter))
	if err != nil {
		return nil, err
	}

	cache.Set(ctx, key, pdf)
	return pdf, nil
}
