package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"surat_pernyataan_go/config"
	"surat_pernyataan_go/db"
	"surat_pernyataan_go/handlers"
	"surat_pernyataan_go/middleware"
	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services"
	"surat_pernyataan_go/services/i18n"
	"surat_pernyataan_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Load translations
	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		Environment: cfg.Environment,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.HistoryItem{}, &models.StoredExport{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Storage first, the exporters resolve uploaded images through it
	services.InitializeStorage(cfg)
	services.InitializeExport(cfg)
	defer services.PDFCache.Close()

	// Background jobs
	scheduler := jobs.StartScheduler(db.DB, services.Storage)
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(echomiddleware.BodyLimit("10M"))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.CSPNonce())
	e.Use(middleware.Locale(cfg))

	// Uploaded letter images on local storage; exports are only reachable through signed links
	assetsDir := filepath.Join(cfg.UploadDir, "assets")
	e.Static("/"+filepath.ToSlash(assetsDir), assetsDir)

	// Form and preview
	e.GET("/", handlers.IndexHandler)
	e.POST("/preview", handlers.PreviewHandler)
	e.POST("/print", handlers.StatementHandler)

	api := e.Group("/api")
	{
		api.POST("/pages", handlers.PagesHandler)

		// Export routes
		exports := api.Group("/export")
		exports.Use(middleware.ExportRateLimiter.Middleware())
		{
			exports.POST("", handlers.ExportHandler)
			exports.POST("/email", handlers.ExportEmailHandler)
		}
		api.GET("/downloads/:token", handlers.DownloadHandler)

		// Letter images
		api.POST("/assets", handlers.UploadAssetHandler, middleware.UploadRateLimiter.Middleware())

		// History
		api.GET("/history", handlers.ListHistoryHandler)
		api.POST("/history", handlers.CreateHistoryHandler)
		api.GET("/history/export.xlsx", handlers.ExportHistoryHandler)
		api.GET("/history/:id", handlers.GetHistoryHandler)
		api.DELETE("/history/:id", handlers.DeleteHistoryHandler)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":     "ok",
			"exportMode": services.Exporter.Mode(),
			"storage":    services.Storage.Backend(),
		})
	})

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("[WARNING] Server shutdown: %v", err)
	}
}
