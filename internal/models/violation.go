package models

import (
	"time"

	"gorm.io/gorm"
)

// Violation represents a reported human-rights violation.
type Violation struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Type        string         `gorm:"not null;index" json:"type"`
	Country     string         `gorm:"not null;index" json:"country"`
	Date        time.Time      `gorm:"not null" json:"date"`
	Description string         `gorm:"type:text" json:"description"`
	Severity    Severity       `gorm:"type:varchar(16);not null;default:'medium'" json:"severity"`
	CreatedByID *uint          `gorm:"index" json:"created_by_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
