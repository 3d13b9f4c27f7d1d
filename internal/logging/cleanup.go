package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/bountychain/report-vault/internal/jobs"
	"github.com/bountychain/report-vault/internal/models"
	"gorm.io/gorm"
)

const cleanupInterval = 24 * time.Hour

// CleanupTask deletes system_logs older than retention.
func CleanupTask(db *gorm.DB, retention time.Duration, now func() time.Time) jobs.Task {
	return func(ctx context.Context) error {
		cutoff := now().Add(-retention)
		result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			slog.Info("log cleanup completed", "deleted", result.RowsAffected)
		}
		return nil
	}
}

// StartCleanup runs CleanupTask daily until ctx is cancelled.
func StartCleanup(ctx context.Context, db *gorm.DB, retention time.Duration) <-chan struct{} {
	task := CleanupTask(db, retention, func() time.Time { return time.Now().UTC() })
	return jobs.NewRunner("log-cleanup", cleanupInterval, task).Start(ctx)
}
