package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTursoDSN(t *testing.T) {
	dsn, err := tursoDSN("libsql://letters-demo.turso.io", "tok123")
	require.NoError(t, err)
	assert.Equal(t, "libsql://letters-demo.turso.io?authToken=tok123", dsn)

	dsn, err = tursoDSN("libsql://letters-demo.turso.io", "")
	require.NoError(t, err)
	assert.Equal(t, "libsql://letters-demo.turso.io", dsn)

	_, err = tursoDSN("://bad", "tok")
	assert.Error(t, err)
}

func TestInitializeLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Initialize(Options{Path: path, Environment: "test"}))
	defer func() {
		assert.NoError(t, Close())
		DB = nil
	}()

	type record struct {
		ID   uint
		Name string
	}
	require.NoError(t, AutoMigrate(&record{}))
	require.NoError(t, DB.Create(&record{Name: "ok"}).Error)

	var got record
	require.NoError(t, DB.First(&got).Error)
	assert.Equal(t, "ok", got.Name)
}

func TestAutoMigrateWithoutDB(t *testing.T) {
	DB = nil
	assert.Error(t, AutoMigrate())
	assert.NoError(t, Close())
}
