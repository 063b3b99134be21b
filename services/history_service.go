package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services/i18n"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ErrHistoryNotFound is returned when a history entry does not exist
var ErrHistoryNotFound = errors.New("history item not found")

// DefaultHistoryName is used in generated labels when the letter has no name
const DefaultHistoryName = "Tanpa Nama"

// maxLabelLength caps user supplied labels
const maxLabelLength = 200

var labelPolicy = bluemonday.StrictPolicy()

// DefaultHistoryLabel builds "Surat Pernyataan - <nama> (<d/m/yyyy>)"
func DefaultHistoryLabel(data models.LetterData, now time.Time) string {
	nama := strings.TrimSpace(data.Nama)
	if nama == "" {
		nama = DefaultHistoryName
	}
	return fmt.Sprintf("Surat Pernyataan - %s (%s)", nama, FormatDateShort(now))
}

// SanitizeLabel strips markup from a label and trims it to a sane length. The
// result is plain text; templates escape it on output.
func SanitizeLabel(label string) string {
	clean := strings.TrimSpace(html.UnescapeString(labelPolicy.Sanitize(label)))
	if runes := []rune(clean); len(runes) > maxLabelLength {
		clean = string(runes[:maxLabelLength])
	}
	return clean
}

// SaveHistory stores a copy of the letter. An empty label gets the default one.
func SaveHistory(db *gorm.DB, data models.LetterData, label string) (*models.HistoryItem, error) {
	now := time.Now()

	label = SanitizeLabel(label)
	if label == "" {
		label = DefaultHistoryLabel(data, now)
	}

	item := &models.HistoryItem{
		ID:        now.UnixMilli(),
		Timestamp: now.UTC().Format(time.RFC3339),
		Label:     label,
		Data:      data,
	}

	// IDs are millisecond timestamps; two saves within the same millisecond
	// take the next free ID so ordering stays newest first. Reading the latest
	// ID and inserting share one transaction so concurrent saves cannot collide.
	err := db.Transaction(func(tx *gorm.DB) error {
		var latest models.HistoryItem
		err := tx.Order("id DESC").First(&latest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if err == nil && latest.ID >= item.ID {
			item.ID = latest.ID + 1
		}

		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetHistory returns all saved letters, newest first
func GetHistory(db *gorm.DB) ([]models.HistoryItem, error) {
	var items []models.HistoryItem
	if err := db.Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return items, nil
}

// GetHistoryItem returns one saved letter
func GetHistoryItem(db *gorm.DB, id int64) (*models.HistoryItem, error) {
	var item models.HistoryItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch history item: %w", err)
	}
	return &item, nil
}

// DeleteHistory removes a saved letter. Deleting a missing ID is not an error.
func DeleteHistory(db *gorm.DB, id int64) error {
	if err := db.Delete(&models.HistoryItem{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete history item: %w", err)
	}
	return nil
}

// ExportHistoryXLSX writes the history as a spreadsheet, one row per entry
func ExportHistoryXLSX(ctx context.Context, items []models.HistoryItem) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := i18n.T(ctx, "history.sheet")
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{
		"ID",
		i18n.T(ctx, "history.columns.timestamp"),
		i18n.T(ctx, "history.columns.label"),
		i18n.T(ctx, "form.nama"),
		i18n.T(ctx, "form.judul"),
		i18n.T(ctx, "form.nomor"),
		i18n.T(ctx, "history.columns.pages"),
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, item := range items {
		doc := BuildDocument(item.Data)
		row := []interface{}{
			item.ID,
			item.Timestamp,
			item.Label,
			item.Data.Nama,
			item.Data.Title(),
			item.Data.NomorSurat,
			doc.PageCount(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "G1", headerStyle)
	f.SetColWidth(sheet, "A", "B", 22)
	f.SetColWidth(sheet, "C", "C", 48)
	f.SetColWidth(sheet, "D", "F", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}

	return buf, nil
}
