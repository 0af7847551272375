// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"openeyes/internal/cache"
	"openeyes/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for forum post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint, includeHidden bool) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Post, error)
	ListByStatus(ctx context.Context, status models.ModerationStatus, limit, offset int) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	SetModerationStatus(ctx context.Context, id uint, status models.ModerationStatus) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, status models.ModerationStatus) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PostListKey)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				First(&post, id).Error
		})
	} else {
		err = r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			First(&post, id).Error
	}

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByUserID lists one author's posts. Pending and rejected posts are only
// included for the author themselves, or when includeHidden is set
// (moderator view).
func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint, includeHidden bool) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID)
	if !includeHidden {
		q = q.Where("moderation_status = ? OR user_id = ?", models.ModerationApproved, currentUserID)
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// List returns approved posts only. The moderation queue goes through
// ListByStatus.
func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Post, error) {
	var posts []*models.Post
	base := r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("moderation_status = ?", models.ModerationApproved)
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByStatus(ctx context.Context, status models.ModerationStatus, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(readDB(r.db).WithContext(ctx), 0).
		Preload("User").
		Where("moderation_status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// applySort appends the ORDER BY clause for the requested sort type.
// likes_count and comments_count are SELECT aliases from applyPostDetails;
// PostgreSQL allows referencing them in ORDER BY within the same query level.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("likes_count - dislikes_count DESC, created_at DESC")
	case "active":
		return db.Order("comments_count DESC, created_at DESC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + query + "%"
	err := r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("moderation_status = ?", models.ModerationApproved).
		Where("title ILIKE ? OR content ILIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// applyPostDetails adds subqueries to fetch counts and the caller's own
// reaction in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM post_reactions WHERE post_reactions.post_id = posts.id AND post_reactions.type = 'like') as likes_count, " +
		"(SELECT COUNT(*) FROM post_reactions WHERE post_reactions.post_id = posts.id AND post_reactions.type = 'dislike') as dislikes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", COALESCE((SELECT type FROM post_reactions WHERE post_reactions.post_id = posts.id AND post_reactions.user_id = ?), '') as user_reaction", currentUserID)
	}

	return db.Select(selectQuery + ", '' as user_reaction")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) SetModerationStatus(ctx context.Context, id uint, status models.ModerationStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("moderation_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) Count(ctx context.Context, status models.ModerationStatus) (int64, error) {
	var count int64
	q := readDB(r.db).WithContext(ctx).Model(&models.Post{})
	if status != "" {
		q = q.Where("moderation_status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
