package service

import (
	"context"
	"errors"
	"fmt"

	"openeyes/internal/models"
	"openeyes/internal/repository"

	"gorm.io/gorm"
)

type PostService struct {
	postRepo    repository.PostRepository
	audit       *AuditLogger
	canModerate func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
	Sort          string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	audit *AuditLogger,
	canModerate func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		audit:       audit,
		canModerate: canModerate,
	}
}

const (
	maxPostTitleLen   = 300
	maxPostContentLen = 50000
)

// CreatePost stores a new post in the moderation queue. Posts always start
// pending; only a moderator decision makes them publicly visible.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxPostTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post := &models.Post{
		Title:            in.Title,
		Content:          in.Content,
		UserID:           in.UserID,
		ModerationStatus: models.ModerationPending,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.getPost(ctx, post.ID, in.UserID)
}

// ListPosts returns approved posts for the public forum feed.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID, in.Sort)
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}

// GetPost returns a single post. Pending and rejected posts are visible only
// to their author and to moderators.
func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.getPost(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if post.ModerationStatus != models.ModerationApproved && post.UserID != currentUserID {
		allowed := false
		if currentUserID != 0 && s.canModerate != nil {
			allowed, err = s.canModerate(ctx, currentUserID)
			if err != nil {
				return nil, err
			}
		}
		if !allowed {
			return nil, models.NewNotFoundError("Post", id)
		}
	}
	return post, nil
}

// GetUserPosts lists one author's posts. Pending and rejected posts are
// included only for the author themselves and for moderators.
func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	includeHidden := false
	if currentUserID != 0 && currentUserID != userID && s.canModerate != nil {
		allowed, err := s.canModerate(ctx, currentUserID)
		if err != nil {
			return nil, err
		}
		includeHidden = allowed
	}
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID, includeHidden)
}

// UpdatePost edits a post. Only the author may edit, and edits send the post
// back through moderation.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.getPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != "" {
		if len(in.Title) > maxPostTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxPostContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	post.ModerationStatus = models.ModerationPending

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. The author may always delete their own post;
// moderators may delete any post.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.getPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if s.canModerate == nil {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		allowed, err := s.canModerate(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !allowed {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ModerationQueue lists posts awaiting review, oldest first.
func (s *PostService) ModerationQueue(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListByStatus(ctx, models.ModerationPending, limit, offset)
}

// Moderate applies an approve/reject decision to a post and audits it.
func (s *PostService) Moderate(ctx context.Context, moderatorID, postID uint, status models.ModerationStatus) (*models.Post, error) {
	if status != models.ModerationApproved && status != models.ModerationRejected {
		return nil, models.NewValidationError("Moderation decision must be 'approved' or 'rejected'")
	}

	if err := s.postRepo.SetModerationStatus(ctx, postID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	s.audit.Info(ctx, LogTypeModeration,
		fmt.Sprintf("post %d marked %s", postID, status), &moderatorID)

	return s.getPost(ctx, postID, moderatorID)
}

func (s *PostService) getPost(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return post, nil
}
