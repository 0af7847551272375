package repository

import (
	"context"
	"errors"

	"openeyes/internal/models"

	"gorm.io/gorm"
)

// ViolationFilter narrows violation listings.
type ViolationFilter struct {
	Type     string
	Country  string
	Severity models.Severity
}

// ViolationRepository defines persistence operations for violations.
type ViolationRepository interface {
	Create(ctx context.Context, violation *models.Violation) error
	GetByID(ctx context.Context, id uint) (*models.Violation, error)
	List(ctx context.Context, filter ViolationFilter, limit, offset int) ([]*models.Violation, error)
	Update(ctx context.Context, violation *models.Violation) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type violationRepository struct {
	db *gorm.DB
}

// NewViolationRepository returns a new ViolationRepository implementation.
func NewViolationRepository(db *gorm.DB) ViolationRepository {
	return &violationRepository{db: db}
}

func (r *violationRepository) Create(ctx context.Context, violation *models.Violation) error {
	if err := r.db.WithContext(ctx).Create(violation).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *violationRepository) GetByID(ctx context.Context, id uint) (*models.Violation, error) {
	var violation models.Violation
	if err := readDB(r.db).WithContext(ctx).First(&violation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Violation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &violation, nil
}

func (r *violationRepository) List(ctx context.Context, filter ViolationFilter, limit, offset int) ([]*models.Violation, error) {
	var violations []*models.Violation
	q := readDB(r.db).WithContext(ctx)

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Country != "" {
		q = q.Where("country = ?", filter.Country)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}

	if err := q.Order("date DESC").Limit(limit).Offset(offset).Find(&violations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return violations, nil
}

func (r *violationRepository) Update(ctx context.Context, violation *models.Violation) error {
	if err := r.db.WithContext(ctx).Save(violation).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *violationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Violation{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Violation", id)
	}
	return nil
}

func (r *violationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Violation{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
