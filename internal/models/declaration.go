package models

import (
	"time"

	"gorm.io/gorm"
)

// DeclarationStatus is the adoption state of a UN declaration.
type DeclarationStatus string

const (
	DeclarationDraft    DeclarationStatus = "draft"
	DeclarationAdopted  DeclarationStatus = "adopted"
	DeclarationRejected DeclarationStatus = "rejected"
)

// UNDeclaration represents a United Nations declaration or resolution
// tracked alongside conflicts and violations.
type UNDeclaration struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Title     string            `gorm:"not null" json:"title"`
	Number    string            `gorm:"unique;not null" json:"number"`
	Date      time.Time         `gorm:"not null" json:"date"`
	Summary   string            `gorm:"type:text" json:"summary"`
	Status    DeclarationStatus `gorm:"type:varchar(16);not null;default:'draft'" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName matches the historical table name.
func (UNDeclaration) TableName() string {
	return "un_declarations"
}
