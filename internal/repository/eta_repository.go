package repository

import (
	"context"
	"errors"
	"time"

	"buspulse/internal/models"

	"gorm.io/gorm"
)

type EtaRepository interface {
	Create(ctx context.Context, sample *models.EtaSample) error
	LatestForBusAndStop(ctx context.Context, busID, stopID uint) (*models.EtaSample, error)
	RecentForBusAndStop(ctx context.Context, busID, stopID uint, limit int) ([]models.EtaSample, error)
	Count(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type etaRepository struct {
	db *gorm.DB
}

func NewEtaRepository(db *gorm.DB) EtaRepository {
	return &etaRepository{db: db}
}

func (r *etaRepository) Create(ctx context.Context, sample *models.EtaSample) error {
	return r.db.WithContext(ctx).Create(sample).Error
}

// LatestForBusAndStop - свежайшая оценка по исходной метке времени,
// в разрезе конкретной остановки
func (r *etaRepository) LatestForBusAndStop(ctx context.Context, busID, stopID uint) (*models.EtaSample, error) {
	var sample models.EtaSample
	err := r.db.WithContext(ctx).
		Where("bus_id = ? AND stop_id = ?", busID, stopID).
		Order("source_timestamp DESC").
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

func (r *etaRepository) RecentForBusAndStop(ctx context.Context, busID, stopID uint, limit int) ([]models.EtaSample, error) {
	var samples []models.EtaSample
	err := r.db.WithContext(ctx).
		Where("bus_id = ? AND stop_id = ?", busID, stopID).
		Order("source_timestamp DESC").
		Limit(limit).
		Find(&samples).
		Error
	return samples, err
}

func (r *etaRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EtaSample{}).Count(&count).Error
	return count, err
}

func (r *etaRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("source_timestamp < ?", cutoff).
		Delete(&models.EtaSample{})
	return res.RowsAffected, res.Error
}
