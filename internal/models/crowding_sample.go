package models

import (
	"time"
)

// CrowdingSample - исторический факт: коэффициент и уровень на момент наблюдения,
// задним числом не пересчитывается
type CrowdingSample struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	BusID          uint      `gorm:"not null;index" json:"-"`
	Bus            Bus       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Timestamp      time.Time `gorm:"not null" json:"timestamp"`
	OccupancyRatio float64   `gorm:"not null" json:"occupancy_ratio"`
	Level          string    `gorm:"size:20;not null" json:"level"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"-"`
}
