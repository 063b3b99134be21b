package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "Valid date",
			input:    "2026-01-27",
			expected: time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC),
			wantErr:  false,
		},
		{
			name:    "Invalid format",
			input:   "27-01-2026",
			wantErr: true,
		},
		{
			name:    "Invalid day",
			input:   "2026-01-32",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestFormatDateIndo(t *testing.T) {
	assert.Equal(t, "16 Oktober 2026", FormatDateIndo("2026-10-16"))
	assert.Equal(t, "1 Januari 2025", FormatDateIndo("2025-01-01"))
	assert.Equal(t, "31 Desember 2024", FormatDateIndo("2024-12-31"))
	assert.Equal(t, "", FormatDateIndo(""))
	assert.Equal(t, "", FormatDateIndo("16/10/2026"))
}

func TestFormatDateShort(t *testing.T) {
	assert.Equal(t, "5/3/2026", FormatDateShort(time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)))
}
