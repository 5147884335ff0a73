package repository

import (
	"context"

	"hotel-pms/internal/models"
	"gorm.io/gorm"
)

type SpecialOfferRepository interface {
	Create(ctx context.Context, offer *models.SpecialOffer) error
	FindAll(ctx context.Context) ([]models.SpecialOffer, error)
	FindActive(ctx context.Context) ([]models.SpecialOffer, error)
}

type specialOfferRepository struct {
	db *gorm.DB
}

func NewSpecialOfferRepository(db *gorm.DB) SpecialOfferRepository {
	return &specialOfferRepository{db: db}
}

func (r *specialOfferRepository) Create(ctx context.Context, offer *models.SpecialOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *specialOfferRepository) FindAll(ctx context.Context) ([]models.SpecialOffer, error) {
	var offers []models.SpecialOffer
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *specialOfferRepository) FindActive(ctx context.Context) ([]models.SpecialOffer, error) {
	var offers []models.SpecialOffer
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}
