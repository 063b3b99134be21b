package partials

import (
	"fmt"
	"time"

	"surat_pernyataan_go/services"
)

// FormatFileSize formats a byte count for upload hints
func FormatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.0f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatTimestamp renders an RFC 3339 history timestamp as d/m/yyyy HH:MM,
// falling back to the raw value
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return services.FormatDateShort(t) + " " + t.Format("15:04")
}
