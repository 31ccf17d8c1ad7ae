package repository

import (
	"context"
	"time"

	"buspulse/internal/models"

	"gorm.io/gorm"
)

type GPSRepository interface {
	Create(ctx context.Context, record *models.GPSRecord) error
	Count(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type gpsRepository struct {
	db *gorm.DB
}

func NewGPSRepository(db *gorm.DB) GPSRepository {
	return &gpsRepository{db: db}
}

func (r *gpsRepository) Create(ctx context.Context, record *models.GPSRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gpsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GPSRecord{}).Count(&count).Error
	return count, err
}

func (r *gpsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.GPSRecord{})
	return res.RowsAffected, res.Error
}
