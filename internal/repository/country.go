package repository

import (
	"context"
	"errors"

	"openeyes/internal/models"

	"gorm.io/gorm"
)

// CountryRepository defines persistence operations for countries.
type CountryRepository interface {
	Create(ctx context.Context, country *models.Country) error
	GetByID(ctx context.Context, id uint) (*models.Country, error)
	List(ctx context.Context, search string, limit, offset int) ([]*models.Country, error)
	Update(ctx context.Context, country *models.Country) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type countryRepository struct {
	db *gorm.DB
}

// NewCountryRepository returns a new CountryRepository implementation.
func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{db: db}
}

func (r *countryRepository) Create(ctx context.Context, country *models.Country) error {
	if err := r.db.WithContext(ctx).Create(country).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Country with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *countryRepository) GetByID(ctx context.Context, id uint) (*models.Country, error) {
	var country models.Country
	if err := readDB(r.db).WithContext(ctx).First(&country, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Country", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &country, nil
}

func (r *countryRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.Country, error) {
	var countries []*models.Country
	q := readDB(r.db).WithContext(ctx)
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&countries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return countries, nil
}

func (r *countryRepository) Update(ctx context.Context, country *models.Country) error {
	if err := r.db.WithContext(ctx).Save(country).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *countryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Country{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Country", id)
	}
	return nil
}

func (r *countryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Country{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
