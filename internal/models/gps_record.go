package models

import (
	"time"
)

// GPSRecord - сырая точка телеметрии, неизменяемая после вставки
type GPSRecord struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	BusID     uint      `gorm:"not null;index" json:"-"`
	Bus       Bus       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	// Скорость в км/ч, пишется как есть (может быть отрицательной)
	Speed     float64   `gorm:"not null" json:"speed"`
	WeightKg  *float64  `json:"weight_kg,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}
