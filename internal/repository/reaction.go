// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"openeyes/internal/cache"
	"openeyes/internal/models"

	"gorm.io/gorm"
)

// ReactionCounts holds the derived like/dislike totals for a post.
type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// ReactionRepository defines persistence operations for post reactions.
type ReactionRepository interface {
	Get(ctx context.Context, userID, postID uint) (*models.Reaction, error)
	Upsert(ctx context.Context, userID, postID uint, reactionType models.ReactionType) error
	Delete(ctx context.Context, userID, postID uint) error
	CountsForPost(ctx context.Context, postID uint) (ReactionCounts, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository returns a new ReactionRepository implementation.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Get returns the user's current reaction on a post, or nil if none exists.
func (r *reactionRepository) Get(ctx context.Context, userID, postID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Upsert inserts the reaction, or overwrites the existing row's type when the
// user already reacted to the post. INSERT ... ON CONFLICT DO UPDATE is
// atomic, so two rapid clicks cannot produce two rows for one user.
func (r *reactionRepository) Upsert(ctx context.Context, userID, postID uint, reactionType models.ReactionType) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO post_reactions (user_id, post_id, type, created_at, updated_at)
		 VALUES (?, ?, ?, NOW(), NOW())
		 ON CONFLICT (user_id, post_id)
		 DO UPDATE SET type = EXCLUDED.type, updated_at = NOW()`,
		userID, postID, reactionType,
	)
	if result.Error == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return result.Error
}

// Delete removes the user's reaction from a post. Deleting a reaction that
// does not exist is not an error; the end state is the same.
func (r *reactionRepository) Delete(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Reaction{}).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

// CountsForPost re-derives the totals from reaction rows. Counts are never
// stored, so they cannot drift from the underlying state.
func (r *reactionRepository) CountsForPost(ctx context.Context, postID uint) (ReactionCounts, error) {
	var counts ReactionCounts
	err := readDB(r.db).WithContext(ctx).
		Raw(`SELECT
			COUNT(*) FILTER (WHERE type = 'like') AS likes,
			COUNT(*) FILTER (WHERE type = 'dislike') AS dislikes
		 FROM post_reactions WHERE post_id = ?`, postID).
		Scan(&counts).Error
	return counts, err
}
