package repository

import (
	"context"
	"time"

	"hotel-pms/internal/models"
	"gorm.io/gorm"
)

type ConflictRepository interface {
	Create(ctx context.Context, c *models.SyncConflict) error
	FindByID(ctx context.Context, id string) (*models.SyncConflict, error)
	FindAll(ctx context.Context) ([]models.SyncConflict, error)
	FindUnresolved(ctx context.Context) ([]models.SyncConflict, error)
	// PairExists reports whether a conflict between this local and channel
	// reservation was ever recorded, resolved or not.
	PairExists(ctx context.Context, localID, channelID string) (bool, error)
	Resolve(ctx context.Context, id string, res models.Resolution, at time.Time) error
}

type conflictRepository struct {
	db *gorm.DB
}

func NewConflictRepository(db *gorm.DB) ConflictRepository {
	return &conflictRepository{db: db}
}

func (r *conflictRepository) Create(ctx context.Context, c *models.SyncConflict) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *conflictRepository) FindByID(ctx context.Context, id string) (*models.SyncConflict, error) {
	var c models.SyncConflict
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conflictRepository) FindAll(ctx context.Context) ([]models.SyncConflict, error) {
	var items []models.SyncConflict
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *conflictRepository) FindUnresolved(ctx context.Context) ([]models.SyncConflict, error) {
	var items []models.SyncConflict
	err := r.db.WithContext(ctx).
		Where("resolution = ?", "").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *conflictRepository) PairExists(ctx context.Context, localID, channelID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SyncConflict{}).
		Where("local_id = ? AND channel_id = ?", localID, channelID).
		Count(&count).Error
	return count > 0, err
}

func (r *conflictRepository) Resolve(ctx context.Context, id string, res models.Resolution, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncConflict{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolution":  res,
			"resolved_at": at,
		}).Error
}
