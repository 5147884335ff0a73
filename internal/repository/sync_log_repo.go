package repository

import (
	"context"

	"hotel-pms/internal/models"
	"gorm.io/gorm"
)

type SyncLogRepository interface {
	// Append writes one entry and drops the oldest rows beyond the cap.
	Append(ctx context.Context, entry *models.SyncLogEntry) error
	Recent(ctx context.Context, limit int) ([]models.SyncLogEntry, error)
}

type syncLogRepository struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepository{db: db}
}

func (r *syncLogRepository) Append(ctx context.Context, entry *models.SyncLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}
	// Keep only the SyncLogCap most recent entries.
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM sync_log_entries
		WHERE id NOT IN (
			SELECT id FROM sync_log_entries ORDER BY id DESC LIMIT ?
		)
	`, models.SyncLogCap).Error
}

func (r *syncLogRepository) Recent(ctx context.Context, limit int) ([]models.SyncLogEntry, error) {
	if limit <= 0 || limit > models.SyncLogCap {
		limit = models.SyncLogCap
	}
	var entries []models.SyncLogEntry
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
