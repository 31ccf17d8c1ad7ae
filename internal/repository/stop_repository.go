package repository

import (
	"context"
	"errors"

	"buspulse/internal/models"

	"gorm.io/gorm"
)

type StopRepository interface {
	Upsert(ctx context.Context, stopID, name string, lat, lon *float64) (*models.BusStop, error)
	GetByStopID(ctx context.Context, stopID string) (*models.BusStop, error)
	List(ctx context.Context) ([]models.BusStop, error)
	Count(ctx context.Context) (int64, error)
}

type stopRepository struct {
	db *gorm.DB
}

func NewStopRepository(db *gorm.DB) StopRepository {
	return &stopRepository{db: db}
}

// Upsert создает остановку с именем и координатами (0.0 по умолчанию, если
// пары нет). Для существующей остановки имя обновляется всегда, координаты -
// только когда переданы обе: пустые значения не должны затирать известные.
func (r *stopRepository) Upsert(ctx context.Context, stopID, name string, lat, lon *float64) (*models.BusStop, error) {
	attrs := models.BusStop{Name: name}
	if lat != nil && lon != nil {
		attrs.Latitude = *lat
		attrs.Longitude = *lon
	}

	stop := models.BusStop{}
	res := r.db.WithContext(ctx).
		Where(models.BusStop{StopID: stopID}).
		Attrs(attrs).
		FirstOrCreate(&stop)
	if res.Error != nil {
		return nil, res.Error
	}

	// RowsAffected == 0 означает, что остановка уже существовала
	if res.RowsAffected == 0 {
		updates := map[string]interface{}{"name": name}
		if lat != nil && lon != nil {
			updates["latitude"] = *lat
			updates["longitude"] = *lon
		}
		if err := r.db.WithContext(ctx).
			Model(&models.BusStop{}).
			Where("id = ?", stop.ID).
			Updates(updates).
			Error; err != nil {
			return nil, err
		}
		stop.Name = name
		if lat != nil && lon != nil {
			stop.Latitude = *lat
			stop.Longitude = *lon
		}
	}

	return &stop, nil
}

func (r *stopRepository) GetByStopID(ctx context.Context, stopID string) (*models.BusStop, error) {
	var stop models.BusStop
	err := r.db.WithContext(ctx).
		Where("stop_id = ?", stopID).
		First(&stop).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stop, nil
}

func (r *stopRepository) List(ctx context.Context) ([]models.BusStop, error) {
	var stops []models.BusStop
	err := r.db.WithContext(ctx).
		Order("stop_id ASC").
		Find(&stops).
		Error
	return stops, err
}

func (r *stopRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BusStop{}).Count(&count).Error
	return count, err
}
