package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"surat_pernyataan_go/config"
	"surat_pernyataan_go/db"
	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services"
	"surat_pernyataan_go/services/i18n"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testDownloadSecret = "test-download-secret-0123456789abcdef"

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	err = testDB.AutoMigrate(&models.HistoryItem{}, &models.StoredExport{})
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	// Each test gets its own storage directory
	services.Storage = services.NewLocalStorage(t.TempDir())

	assert.NoError(t, i18n.Load())

	return testDB
}

// stubExporter stands in for the PDF exporters
type stubExporter struct {
	mu    sync.Mutex
	calls int
	pages []int
	err   error
}

func (e *stubExporter) Export(ctx context.Context, doc services.Document) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.pages = append(e.pages, doc.PageCount())
	if e.err != nil {
		return nil, e.err
	}
	return []byte("%PDF-1.3 stub"), nil
}

func (e *stubExporter) Mode() string { return "stub" }

func setupExporter(t *testing.T) *stubExporter {
	exporter := &stubExporter{}
	services.Exporter = exporter
	services.PDFCache = nil
	t.Cleanup(func() { services.Exporter = nil })
	return exporter
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:    "test",
		DownloadSecret: testDownloadSecret,
		EmailTestMode:  true,
	})

	return e, c, rec
}

func stringToPtr(s string) *string {
	return &s
}
