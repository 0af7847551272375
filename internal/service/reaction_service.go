package service

import (
	"context"
	"errors"

	"openeyes/internal/models"
	"openeyes/internal/observability"
	"openeyes/internal/repository"

	"gorm.io/gorm"
)

// ReactionService implements the like/dislike toggle on forum posts.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
}

func NewReactionService(reactionRepo repository.ReactionRepository, postRepo repository.PostRepository) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
	}
}

// React applies a like/dislike to a post on behalf of userID and returns the
// post re-read from the store. The transition depends on the user's current
// reaction:
//
//	none      + like    -> like stored
//	like      + like    -> reaction removed (toggle off)
//	dislike   + like    -> row updated in place to like
//
// and symmetrically for dislike. The returned post carries counts and the
// caller's reaction derived from the store, never adjusted locally, so a
// store error leaves no partial state behind.
func (s *ReactionService) React(ctx context.Context, userID, postID uint, reactionType models.ReactionType) (*models.Post, error) {
	if !reactionType.Valid() {
		return nil, models.NewValidationError("Reaction type must be 'like' or 'dislike'")
	}

	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	if post.ModerationStatus != models.ModerationApproved {
		return nil, models.NewValidationError("Cannot react to a post that is not approved")
	}

	existing, err := s.reactionRepo.Get(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	transition := "added"
	switch {
	case existing != nil && existing.Type == reactionType:
		if err := s.reactionRepo.Delete(ctx, userID, postID); err != nil {
			return nil, err
		}
		transition = "removed"
	case existing != nil:
		if err := s.reactionRepo.Upsert(ctx, userID, postID, reactionType); err != nil {
			return nil, err
		}
		transition = "switched"
	default:
		if err := s.reactionRepo.Upsert(ctx, userID, postID, reactionType); err != nil {
			return nil, err
		}
	}
	observability.RecordReaction(string(reactionType), transition)

	return s.postRepo.GetByID(ctx, postID, userID)
}
