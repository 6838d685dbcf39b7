package logging

import (
	"log/slog"
	"time"

	"github.com/vetsidekick/cpd-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup prunes system_logs once a day, keeping retentionDays of
// history. An initial sweep runs at startup so a long-idle deployment does
// not wait a full day to trim. Closing done stops the goroutine.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	go func() {
		prune(db, retentionDays)
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				prune(db, retentionDays)
			case <-done:
				return
			}
		}
	}()
}

func prune(db *gorm.DB, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		slog.Info("log cleanup completed",
			"deleted", result.RowsAffected, "retention_days", retentionDays)
	}
}
