package models

import (
	"time"

	"gorm.io/gorm"
)

// HistoryItem is a saved copy of a filled form
type HistoryItem struct {
	// ID is the creation time in milliseconds, which also orders entries
	ID        int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Timestamp string     `gorm:"not null" json:"timestamp"` // RFC 3339
	Label     string     `gorm:"not null" json:"label"`
	Data      LetterData `gorm:"serializer:json;type:text;not null" json:"data"`
	CreatedAt time.Time  `json:"-"`
}

// BeforeCreate assigns the millisecond ID and timestamp when unset
func (h *HistoryItem) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if h.ID == 0 {
		h.ID = now.UnixMilli()
	}
	if h.Timestamp == "" {
		h.Timestamp = now.UTC().Format(time.RFC3339)
	}
	return nil
}

// TableName specifies the table name for HistoryItem model
func (HistoryItem) TableName() string {
	return "history_items"
}
