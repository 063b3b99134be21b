package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for download tokens that are malformed, forged or expired
var ErrInvalidToken = errors.New("invalid download token")

const downloadTokenIssuer = "surat-pernyataan"

// DownloadClaims identify a stored export and the name it is downloaded as
type DownloadClaims struct {
	Key      string `json:"key"`
	FileName string `json:"fn"`
	jwt.RegisteredClaims
}

// GenerateDownloadToken signs a link to a stored export with HS256
func GenerateDownloadToken(secret, key, fileName string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("download secret is not configured")
	}

	now := time.Now()
	claims := DownloadClaims{
		Key:      key,
		FileName: fileName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    downloadTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign download token: %w", err)
	}
	return signed, nil
}

// ParseDownloadToken verifies a download token and returns its claims. Only
// keys under exports/ are accepted.
func ParseDownloadToken(secret, token string) (*DownloadClaims, error) {
	claims := &DownloadClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(downloadTokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !strings.HasPrefix(claims.Key, "exports/") || strings.Contains(claims.Key, "..") {
		return nil, fmt.Errorf("%w: unexpected key", ErrInvalidToken)
	}
	return claims, nil
}

// StoreExport uploads an exported PDF under exports/ and returns its storage key
func StoreExport(ctx context.Context, storage StorageProvider, pdf []byte) (string, error) {
	key := GenerateExportKey()
	if _, err := storage.Put(ctx, key, "application/pdf", pdf); err != nil {
		return "", fmt.Errorf("failed to store export: %w", err)
	}
	return key, nil
}
