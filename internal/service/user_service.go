package service

import (
	"context"
	"fmt"

	"openeyes/internal/models"
	"openeyes/internal/repository"
	"openeyes/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	audit    *AuditLogger
}

type UpdateProfileInput struct {
	UserID    uint
	Username  string
	AvatarURL string
	Title     string
	Work      string
	Website   string
}

func NewUserService(userRepo repository.UserRepository, audit *AuditLogger) *UserService {
	return &UserService{userRepo: userRepo, audit: audit}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxFieldLen = 200

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	for _, f := range []struct {
		val string
		dst *string
	}{
		{in.AvatarURL, &user.AvatarURL},
		{in.Title, &user.Title},
		{in.Work, &user.Work},
		{in.Website, &user.Website},
	} {
		if f.val == "" {
			continue
		}
		if len(f.val) > maxFieldLen {
			return nil, models.NewValidationError("Profile field too long (max 200 characters)")
		}
		*f.dst = f.val
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetRole changes a user's role. Guest is synthetic and therefore not
// assignable.
func (s *UserService) SetRole(ctx context.Context, actorID, targetID uint, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("Unknown role")
	}
	if actorID == targetID {
		return nil, models.NewValidationError("You cannot change your own role")
	}

	if err := s.userRepo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}

	s.audit.Info(ctx, LogTypeUserAdmin,
		fmt.Sprintf("user %d role changed to %s", targetID, role), &actorID)

	return s.userRepo.GetByID(ctx, targetID)
}

// Ban marks an account banned. Banned users cannot log in; tokens already
// issued keep working until they expire or are revoked.
func (s *UserService) Ban(ctx context.Context, actorID, targetID uint) (*models.User, error) {
	return s.setStatus(ctx, actorID, targetID, models.UserStatusBanned)
}

// Unban restores a banned account.
func (s *UserService) Unban(ctx context.Context, actorID, targetID uint) (*models.User, error) {
	return s.setStatus(ctx, actorID, targetID, models.UserStatusActive)
}

func (s *UserService) setStatus(ctx context.Context, actorID, targetID uint, status models.UserStatus) (*models.User, error) {
	if actorID == targetID {
		return nil, models.NewValidationError("You cannot ban or unban yourself")
	}

	if err := s.userRepo.UpdateStatus(ctx, targetID, status); err != nil {
		return nil, err
	}

	s.audit.Warning(ctx, LogTypeUserAdmin,
		fmt.Sprintf("user %d status changed to %s", targetID, status), &actorID)

	return s.userRepo.GetByID(ctx, targetID)
}
