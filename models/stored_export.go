package models

import "time"

// StoredExport tracks a PDF kept in storage behind a signed download link
type StoredExport struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	FileName  string    `gorm:"not null" json:"fileName"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for StoredExport model
func (StoredExport) TableName() string {
	return "stored_exports"
}
