package repository

import (
	"context"

	"buspulse/internal/models"

	"gorm.io/gorm"
)

type BusRepository interface {
	Upsert(ctx context.Context, busID string, capacity int) (*models.Bus, error)
	List(ctx context.Context) ([]models.Bus, error)
	Count(ctx context.Context) (int64, error)
}

type busRepository struct {
	db *gorm.DB
}

func NewBusRepository(db *gorm.DB) BusRepository {
	return &busRepository{db: db}
}

// Upsert создает автобус при первом появлении в батче; при расхождении
// вместимости перезаписывает одно поле (last-write-wins, истории нет)
func (r *busRepository) Upsert(ctx context.Context, busID string, capacity int) (*models.Bus, error) {
	bus := models.Bus{}
	err := r.db.WithContext(ctx).
		Where(models.Bus{BusID: busID}).
		Attrs(models.Bus{Capacity: capacity}).
		FirstOrCreate(&bus).
		Error
	if err != nil {
		return nil, err
	}

	if bus.Capacity != capacity {
		if err := r.db.WithContext(ctx).
			Model(&models.Bus{}).
			Where("id = ?", bus.ID).
			Update("capacity", capacity).
			Error; err != nil {
			return nil, err
		}
		bus.Capacity = capacity
	}

	return &bus, nil
}

func (r *busRepository) List(ctx context.Context) ([]models.Bus, error) {
	var buses []models.Bus
	err := r.db.WithContext(ctx).
		Order("bus_id ASC").
		Find(&buses).
		Error
	return buses, err
}

func (r *busRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bus{}).Count(&count).Error
	return count, err
}
