package services

import (
	"fmt"
	"time"

	"surat_pernyataan_go/models"

	"gorm.io/gorm"
)

// RecordStoredExport remembers a stored export so it can be purged once its link expires
func RecordStoredExport(db *gorm.DB, key, fileName string, size int64, expiresAt time.Time) error {
	export := &models.StoredExport{
		Key:       key,
		FileName:  fileName,
		Size:      size,
		ExpiresAt: expiresAt.UTC(),
	}
	if err := db.Create(export).Error; err != nil {
		return fmt.Errorf("failed to record stored export: %w", err)
	}
	return nil
}

// ExpiredExports lists stored exports whose links expired at or before now
func ExpiredExports(db *gorm.DB, now time.Time) ([]models.StoredExport, error) {
	var exports []models.StoredExport
	if err := db.Where("expires_at <= ?", now.UTC()).Order("expires_at").Find(&exports).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch expired exports: %w", err)
	}
	return exports, nil
}
