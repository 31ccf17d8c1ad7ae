package models

import (
	"time"
)

// EtaSample - оценка прибытия к остановке. EtaSeconds/EtaMinutes равны nil,
// когда машина практически стоит; дистанция пишется всегда.
type EtaSample struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	BusID           uint      `gorm:"not null;index" json:"-"`
	Bus             Bus       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StopID          uint      `gorm:"not null;index" json:"-"`
	Stop            BusStop   `gorm:"foreignKey:StopID;constraint:OnDelete:CASCADE" json:"-"`
	SourceTimestamp time.Time `gorm:"not null" json:"source_timestamp"`
	ComputedAt      time.Time `gorm:"not null" json:"computed_at"`
	EtaSeconds      *int64    `json:"eta_seconds"`
	EtaMinutes      *float64  `json:"eta_minutes"`
	DistanceM       float64   `gorm:"not null" json:"distance_m"`
}
