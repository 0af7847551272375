package database

import "openeyes/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Conflict{},
		&models.Country{},
		&models.Violation{},
		&models.UNDeclaration{},
		&models.NaturalDisaster{},
		&models.ActivityLog{},
	}
}
