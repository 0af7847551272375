package models

import (
	"time"

	"gorm.io/gorm"
)

// Country represents a country profile shown on the countries page.
type Country struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"unique;not null" json:"name"`
	Population  int64          `json:"population"`
	IsDemocracy bool           `json:"is_democracy"`
	President   string         `json:"president"`
	FlagEmoji   string         `json:"flag_emoji"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
