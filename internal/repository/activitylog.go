package repository

import (
	"context"

	"openeyes/internal/models"

	"gorm.io/gorm"
)

// ActivityLogFilter narrows activity-log listings.
type ActivityLogFilter struct {
	Level   models.LogLevel
	LogType string
	UserID  uint
}

// ActivityLogRepository defines persistence operations for audit records.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter, limit, offset int) ([]*models.ActivityLog, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository returns a new ActivityLogRepository implementation.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter, limit, offset int) ([]*models.ActivityLog, error) {
	var entries []*models.ActivityLog
	q := readDB(r.db).WithContext(ctx)

	if filter.Level != "" {
		q = q.Where("log_level = ?", filter.Level)
	}
	if filter.LogType != "" {
		q = q.Where("log_type = ?", filter.LogType)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}

	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
