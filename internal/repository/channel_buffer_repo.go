package repository

import (
	"context"

	"hotel-pms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChannelBufferRepository interface {
	// Upsert inserts or refreshes a reservation reported by the channel feed.
	Upsert(ctx context.Context, res *models.ChannelReservation) error
	FindAll(ctx context.Context) ([]models.ChannelReservation, error)
	Delete(ctx context.Context, channelID string) error
}

type channelBufferRepository struct {
	db *gorm.DB
}

func NewChannelBufferRepository(db *gorm.DB) ChannelBufferRepository {
	return &channelBufferRepository{db: db}
}

func (r *channelBufferRepository) Upsert(ctx context.Context, res *models.ChannelReservation) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"channel", "confirmation_code", "guest_name",
			"room_category", "check_in", "check_out", "updated_at",
		}),
	}).Create(res).Error
}

func (r *channelBufferRepository) FindAll(ctx context.Context) ([]models.ChannelReservation, error) {
	var items []models.ChannelReservation
	if err := r.db.WithContext(ctx).Order("check_in ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *channelBufferRepository) Delete(ctx context.Context, channelID string) error {
	return r.db.WithContext(ctx).Delete(&models.ChannelReservation{}, "channel_id = ?", channelID).Error
}
