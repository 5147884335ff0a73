package repository

import (
	"context"

	"hotel-pms/internal/models"
	"gorm.io/gorm"
)

type RatePlanRepository interface {
	Create(ctx context.Context, plan *models.RatePlan) error
	FindByID(ctx context.Context, id uint) (*models.RatePlan, error)
	FindAll(ctx context.Context) ([]models.RatePlan, error)
	FindActive(ctx context.Context) ([]models.RatePlan, error)
	Update(ctx context.Context, plan *models.RatePlan) error
	Delete(ctx context.Context, id uint) error
}

type ratePlanRepository struct {
	db *gorm.DB
}

func NewRatePlanRepository(db *gorm.DB) RatePlanRepository {
	return &ratePlanRepository{db: db}
}

func (r *ratePlanRepository) Create(ctx context.Context, plan *models.RatePlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *ratePlanRepository) FindByID(ctx context.Context, id uint) (*models.RatePlan, error) {
	var plan models.RatePlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *ratePlanRepository) FindAll(ctx context.Context) ([]models.RatePlan, error) {
	var plans []models.RatePlan
	if err := r.db.WithContext(ctx).Order("priority DESC, id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *ratePlanRepository) FindActive(ctx context.Context) ([]models.RatePlan, error) {
	var plans []models.RatePlan
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("priority DESC, id ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *ratePlanRepository) Update(ctx context.Context, plan *models.RatePlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *ratePlanRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.RatePlan{}, id).Error
}
