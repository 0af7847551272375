package repository

import (
	"context"
	"errors"
	"time"

	"openeyes/internal/models"

	"gorm.io/gorm"
)

// DisasterRepository defines persistence operations for natural disasters.
type DisasterRepository interface {
	Create(ctx context.Context, disaster *models.NaturalDisaster) error
	GetByID(ctx context.Context, id uint) (*models.NaturalDisaster, error)
	List(ctx context.Context, disasterType string, limit, offset int) ([]*models.NaturalDisaster, error)
	Update(ctx context.Context, disaster *models.NaturalDisaster) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type disasterRepository struct {
	db *gorm.DB
}

// NewDisasterRepository returns a new DisasterRepository implementation.
func NewDisasterRepository(db *gorm.DB) DisasterRepository {
	return &disasterRepository{db: db}
}

func (r *disasterRepository) Create(ctx context.Context, disaster *models.NaturalDisaster) error {
	if err := r.db.WithContext(ctx).Create(disaster).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *disasterRepository) GetByID(ctx context.Context, id uint) (*models.NaturalDisaster, error) {
	var disaster models.NaturalDisaster
	if err := readDB(r.db).WithContext(ctx).First(&disaster, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Natural disaster", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &disaster, nil
}

func (r *disasterRepository) List(ctx context.Context, disasterType string, limit, offset int) ([]*models.NaturalDisaster, error) {
	var disasters []*models.NaturalDisaster
	q := readDB(r.db).WithContext(ctx)
	if disasterType != "" {
		q = q.Where("type = ?", disasterType)
	}
	if err := q.Order("date DESC").Limit(limit).Offset(offset).Find(&disasters).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return disasters, nil
}

func (r *disasterRepository) Update(ctx context.Context, disaster *models.NaturalDisaster) error {
	if err := r.db.WithContext(ctx).Save(disaster).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *disasterRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.NaturalDisaster{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Natural disaster", id)
	}
	return nil
}

func (r *disasterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.NaturalDisaster{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *disasterRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.NaturalDisaster{}).Where("date >= ?", since).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
