package repository

import (
	"context"
	"time"

	"hotel-pms/internal/models"
	"gorm.io/gorm"
)

type OfflineQueueRepository interface {
	Create(ctx context.Context, res *models.OfflineReservation) error
	FindByLocalID(ctx context.Context, localID string) (*models.OfflineReservation, error)
	FindAll(ctx context.Context) ([]models.OfflineReservation, error)
	FindByStatus(ctx context.Context, status models.SyncStatus) ([]models.OfflineReservation, error)
	UpdateStatus(ctx context.Context, localID string, status models.SyncStatus) error
	// ClaimForSync flips pending → syncing only if the row is still pending.
	// Returns false when another sync pass already claimed the item.
	ClaimForSync(ctx context.Context, localID string) (bool, error)
	MarkSynced(ctx context.Context, localID string, at time.Time) error
	MarkError(ctx context.Context, localID string, msg string) error
	Delete(ctx context.Context, localID string) error
}

type offlineQueueRepository struct {
	db *gorm.DB
}

func NewOfflineQueueRepository(db *gorm.DB) OfflineQueueRepository {
	return &offlineQueueRepository{db: db}
}

func (r *offlineQueueRepository) Create(ctx context.Context, res *models.OfflineReservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *offlineQueueRepository) FindByLocalID(ctx context.Context, localID string) (*models.OfflineReservation, error) {
	var res models.OfflineReservation
	if err := r.db.WithContext(ctx).First(&res, "local_id = ?", localID).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *offlineQueueRepository) FindAll(ctx context.Context) ([]models.OfflineReservation, error) {
	var items []models.OfflineReservation
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *offlineQueueRepository) FindByStatus(ctx context.Context, status models.SyncStatus) ([]models.OfflineReservation, error) {
	var items []models.OfflineReservation
	err := r.db.WithContext(ctx).
		Where("sync_status = ?", status).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *offlineQueueRepository) UpdateStatus(ctx context.Context, localID string, status models.SyncStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.OfflineReservation{}).
		Where("local_id = ?", localID).
		Update("sync_status", status).Error
}

func (r *offlineQueueRepository) ClaimForSync(ctx context.Context, localID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OfflineReservation{}).
		Where("local_id = ? AND sync_status = ?", localID, models.StatusPending).
		Update("sync_status", models.StatusSyncing)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *offlineQueueRepository) MarkSynced(ctx context.Context, localID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.OfflineReservation{}).
		Where("local_id = ?", localID).
		Updates(map[string]interface{}{
			"sync_status": models.StatusSynced,
			"sync_error":  "",
			"synced_at":   at,
		}).Error
}

func (r *offlineQueueRepository) MarkError(ctx context.Context, localID string, msg string) error {
	return r.db.WithContext(ctx).
		Model(&models.OfflineReservation{}).
		Where("local_id = ?", localID).
		Updates(map[string]interface{}{
			"sync_status": models.StatusError,
			"sync_error":  msg,
		}).Error
}

func (r *offlineQueueRepository) Delete(ctx context.Context, localID string) error {
	return r.db.WithContext(ctx).Delete(&models.OfflineReservation{}, "local_id = ?", localID).Error
}
