package services

import (
	"testing"
	"time"

	"surat_pernyataan_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiredExports(t *testing.T) {
	db := setupHistoryTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.StoredExport{}))

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	require.NoError(t, RecordStoredExport(db, "exports/old.pdf", "old.pdf", 10, now.Add(-2*time.Hour)))
	require.NoError(t, RecordStoredExport(db, "exports/edge.pdf", "edge.pdf", 10, now))
	require.NoError(t, RecordStoredExport(db, "exports/new.pdf", "new.pdf", 10, now.Add(time.Hour)))

	expired, err := ExpiredExports(db, now)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, "exports/old.pdf", expired[0].Key)
	assert.Equal(t, "exports/edge.pdf", expired[1].Key)

	assert.Error(t, RecordStoredExport(db, "exports/old.pdf", "dup.pdf", 1, now), "keys are unique")
}
