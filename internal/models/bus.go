package models

type Bus struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	BusID       string `gorm:"size:50;uniqueIndex;not null" json:"bus_id"`
	Capacity    int    `gorm:"not null" json:"capacity"`
	Description string `gorm:"size:100" json:"description,omitempty"`
}
