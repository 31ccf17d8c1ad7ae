package models

type BusStop struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	StopID    string  `gorm:"size:50;uniqueIndex;not null" json:"stop_id"`
	Name      string  `gorm:"size:100;not null" json:"name"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
}
