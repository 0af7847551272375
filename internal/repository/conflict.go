// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"openeyes/internal/models"

	"gorm.io/gorm"
)

// ConflictFilter narrows conflict listings.
type ConflictFilter struct {
	Region string
	Status models.ConflictStatus
	Search string
}

// ConflictRepository defines persistence operations for conflicts.
type ConflictRepository interface {
	Create(ctx context.Context, conflict *models.Conflict) error
	GetByID(ctx context.Context, id uint) (*models.Conflict, error)
	GetByName(ctx context.Context, name string) (*models.Conflict, error)
	List(ctx context.Context, filter ConflictFilter, limit, offset int) ([]*models.Conflict, error)
	Update(ctx context.Context, conflict *models.Conflict) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, status models.ConflictStatus) (int64, error)
}

type conflictRepository struct {
	db *gorm.DB
}

// NewConflictRepository returns a new ConflictRepository implementation.
func NewConflictRepository(db *gorm.DB) ConflictRepository {
	return &conflictRepository{db: db}
}

func (r *conflictRepository) Create(ctx context.Context, conflict *models.Conflict) error {
	if err := r.db.WithContext(ctx).Create(conflict).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Conflict with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *conflictRepository) GetByID(ctx context.Context, id uint) (*models.Conflict, error) {
	var conflict models.Conflict
	if err := readDB(r.db).WithContext(ctx).First(&conflict, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Conflict", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conflict, nil
}

func (r *conflictRepository) GetByName(ctx context.Context, name string) (*models.Conflict, error) {
	var conflict models.Conflict
	if err := readDB(r.db).WithContext(ctx).Where("name = ?", name).First(&conflict).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conflict, nil
}

func (r *conflictRepository) List(ctx context.Context, filter ConflictFilter, limit, offset int) ([]*models.Conflict, error) {
	var conflicts []*models.Conflict
	q := readDB(r.db).WithContext(ctx)

	if filter.Region != "" {
		q = q.Where("region = ?", filter.Region)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR involved_parties ILIKE ?", like, like)
	}

	err := q.Order("start_date DESC").Limit(limit).Offset(offset).Find(&conflicts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return conflicts, nil
}

func (r *conflictRepository) Update(ctx context.Context, conflict *models.Conflict) error {
	if err := r.db.WithContext(ctx).Save(conflict).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *conflictRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Conflict{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Conflict", id)
	}
	return nil
}

func (r *conflictRepository) Count(ctx context.Context, status models.ConflictStatus) (int64, error) {
	var count int64
	q := readDB(r.db).WithContext(ctx).Model(&models.Conflict{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
