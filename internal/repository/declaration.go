package repository

import (
	"context"
	"errors"

	"openeyes/internal/models"

	"gorm.io/gorm"
)

// DeclarationRepository defines persistence operations for UN declarations.
type DeclarationRepository interface {
	Create(ctx context.Context, declaration *models.UNDeclaration) error
	GetByID(ctx context.Context, id uint) (*models.UNDeclaration, error)
	List(ctx context.Context, status models.DeclarationStatus, limit, offset int) ([]*models.UNDeclaration, error)
	Update(ctx context.Context, declaration *models.UNDeclaration) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, status models.DeclarationStatus) (int64, error)
}

type declarationRepository struct {
	db *gorm.DB
}

// NewDeclarationRepository returns a new DeclarationRepository implementation.
func NewDeclarationRepository(db *gorm.DB) DeclarationRepository {
	return &declarationRepository{db: db}
}

func (r *declarationRepository) Create(ctx context.Context, declaration *models.UNDeclaration) error {
	if err := r.db.WithContext(ctx).Create(declaration).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Declaration with this number already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *declarationRepository) GetByID(ctx context.Context, id uint) (*models.UNDeclaration, error) {
	var declaration models.UNDeclaration
	if err := readDB(r.db).WithContext(ctx).First(&declaration, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("UN Declaration", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &declaration, nil
}

func (r *declarationRepository) List(ctx context.Context, status models.DeclarationStatus, limit, offset int) ([]*models.UNDeclaration, error) {
	var declarations []*models.UNDeclaration
	q := readDB(r.db).WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("date DESC").Limit(limit).Offset(offset).Find(&declarations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return declarations, nil
}

func (r *declarationRepository) Update(ctx context.Context, declaration *models.UNDeclaration) error {
	if err := r.db.WithContext(ctx).Save(declaration).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *declarationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.UNDeclaration{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("UN Declaration", id)
	}
	return nil
}

func (r *declarationRepository) Count(ctx context.Context, status models.DeclarationStatus) (int64, error) {
	var count int64
	q := readDB(r.db).WithContext(ctx).Model(&models.UNDeclaration{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
