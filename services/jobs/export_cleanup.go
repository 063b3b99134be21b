package jobs

import (
	"context"
	"log"
	"time"

	"surat_pernyataan_go/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ExportCleanupSchedule runs the stored export purge every 15 minutes
const ExportCleanupSchedule = "*/15 * * * *"

// StartScheduler starts the background jobs and returns the running scheduler
func StartScheduler(database *gorm.DB, storage services.StorageProvider) *cron.Cron {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(ExportCleanupSchedule, func() {
		PurgeExpiredExports(context.Background(), database, storage, time.Now())
	})
	if err != nil {
		log.Fatalf("[CRON] Failed to schedule export cleanup: %v", err)
	}

	c.Start()
	log.Println("[CRON] Scheduler started")
	return c
}

// PurgeExpiredExports deletes stored exports whose download links have expired
// and returns how many were removed. Entries whose file cannot be deleted are
// kept for the next run.
func PurgeExpiredExports(ctx context.Context, database *gorm.DB, storage services.StorageProvider, now time.Time) int {
	expired, err := services.ExpiredExports(database, now)
	if err != nil {
		log.Printf("[JOB] %v", err)
		return 0
	}

	removed := 0
	for _, export := range expired {
		if err := storage.Delete(ctx, export.Key); err != nil {
			log.Printf("[JOB] Failed to delete stored export %s: %v", export.Key, err)
			continue
		}
		if err := database.Delete(&export).Error; err != nil {
			log.Printf("[JOB] Failed to forget stored export %s: %v", export.Key, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("[JOB] Purged %d expired exports", removed)
	}
	return removed
}
