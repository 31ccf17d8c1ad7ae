package repository

import (
	"context"
	"errors"
	"time"

	"buspulse/internal/models"

	"gorm.io/gorm"
)

type CrowdingRepository interface {
	Create(ctx context.Context, sample *models.CrowdingSample) error
	LatestForBus(ctx context.Context, busID uint) (*models.CrowdingSample, error)
	RecentForBus(ctx context.Context, busID uint, limit int) ([]models.CrowdingSample, error)
	Count(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type crowdingRepository struct {
	db *gorm.DB
}

func NewCrowdingRepository(db *gorm.DB) CrowdingRepository {
	return &crowdingRepository{db: db}
}

func (r *crowdingRepository) Create(ctx context.Context, sample *models.CrowdingSample) error {
	return r.db.WithContext(ctx).Create(sample).Error
}

func (r *crowdingRepository) LatestForBus(ctx context.Context, busID uint) (*models.CrowdingSample, error) {
	var sample models.CrowdingSample
	err := r.db.WithContext(ctx).
		Where("bus_id = ?", busID).
		Order("timestamp DESC").
		First(&sample).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

// RecentForBus возвращает последние limit записей, свежие первыми
func (r *crowdingRepository) RecentForBus(ctx context.Context, busID uint, limit int) ([]models.CrowdingSample, error) {
	var samples []models.CrowdingSample
	err := r.db.WithContext(ctx).
		Where("bus_id = ?", busID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&samples).
		Error
	return samples, err
}

func (r *crowdingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CrowdingSample{}).Count(&count).Error
	return count, err
}

func (r *crowdingRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.CrowdingSample{})
	return res.RowsAffected, res.Error
}
