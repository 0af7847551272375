package models

import (
	"time"

	"gorm.io/gorm"
)

// NaturalDisaster represents a tracked natural disaster event.
type NaturalDisaster struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Type        string         `gorm:"not null;index" json:"type"`
	Date        time.Time      `gorm:"not null" json:"date"`
	Location    string         `gorm:"not null" json:"location"`
	Description string         `gorm:"type:text" json:"description"`
	Casualties  int            `json:"casualties"`
	Magnitude   *float64       `json:"magnitude,omitempty"`
	Lat         *float64       `json:"lat,omitempty"`
	Lon         *float64       `json:"lon,omitempty"`
	CreatedByID *uint          `gorm:"index" json:"created_by_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName matches the historical table name.
func (NaturalDisaster) TableName() string {
	return "natural_disasters"
}
