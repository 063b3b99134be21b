package services

import (
	"fmt"
	"time"
)

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	// Primary format: ISO 8601 (standard for HTML5 date inputs)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// FormatDateIndo formats a YYYY-MM-DD date the way id-ID long dates read,
// e.g. "16 Oktober 2026". Empty or invalid input yields an empty string.
func FormatDateIndo(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	t, err := ParseDate(dateStr)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
}

// FormatDateShort formats a time as d/m/yyyy, used in default history labels
func FormatDateShort(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}
