// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// ConflictStatus is the tracked state of an armed conflict.
type ConflictStatus string

const (
	ConflictActive       ConflictStatus = "active"
	ConflictResolved     ConflictStatus = "resolved"
	ConflictEscalating   ConflictStatus = "escalating"
	ConflictDeEscalating ConflictStatus = "de-escalating"
)

// Severity grades a conflict or violation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Conflict represents a tracked armed conflict.
type Conflict struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"unique;not null" json:"name"`
	Region          string         `gorm:"not null;index" json:"region"`
	Status          ConflictStatus `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
	Severity        Severity       `gorm:"type:varchar(16);not null;default:'medium'" json:"severity"`
	StartDate       time.Time      `gorm:"not null" json:"start_date"`
	Casualties      int            `json:"casualties"`
	InvolvedParties string         `json:"involved_parties"`
	Lat             *float64       `json:"lat,omitempty"`
	Lon             *float64       `json:"lon,omitempty"`
	CreatedByID     *uint          `gorm:"index" json:"created_by_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
