package service

import (
	"context"
	"testing"

	"openeyes/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByIDWithPostsFn func(context.Context, uint, int, bool) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	getByUsernameFn    func(context.Context, string) (*models.User, error)
	createFn           func(context.Context, *models.User) error
	updateFn           func(context.Context, *models.User) error
	updateRoleFn       func(context.Context, uint, models.Role) error
	updateStatusFn     func(context.Context, uint, models.UserStatus) error
	deleteFn           func(context.Context, uint) error
	listFn             func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithPosts(ctx context.Context, id uint, limit int, includeHidden bool) (*models.User, error) {
	return s.getByIDWithPostsFn(ctx, id, limit, includeHidden)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id uint, role models.Role) error {
	return s.updateRoleFn(ctx, id, role)
}
func (s *userRepoStub) UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice", Role: models.RoleUser, Status: models.UserStatusActive}, nil
		},
		getByIDWithPostsFn: func(_ context.Context, id uint, _ int, _ bool) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateRoleFn:    func(_ context.Context, _ uint, _ models.Role) error { return nil },
		updateStatusFn:  func(_ context.Context, _ uint, _ models.UserStatus) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := noopUserRepo()
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}

	svc := NewUserService(repo, nil)
	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: 1,
		Title:  "Field Reporter",
		Work:   "OpenEyes",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Field Reporter", user.Title)
	assert.Equal(t, "OpenEyes", user.Work)
	// Unset fields are left alone.
	assert.Equal(t, "alice", user.Username)
}

func TestUpdateProfile_InvalidUsername(t *testing.T) {
	svc := NewUserService(noopUserRepo(), nil)
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:   1,
		Username: "ab",
	})
	assertValidationError(t, err)
}

func TestSetRole(t *testing.T) {
	repo := noopUserRepo()
	var gotRole models.Role
	repo.updateRoleFn = func(_ context.Context, id uint, role models.Role) error {
		gotRole = role
		return nil
	}

	svc := NewUserService(repo, nil)
	_, err := svc.SetRole(context.Background(), 1, 2, models.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, gotRole)
}

func TestSetRole_GuestNotAssignable(t *testing.T) {
	svc := NewUserService(noopUserRepo(), nil)
	_, err := svc.SetRole(context.Background(), 1, 2, models.RoleGuest)
	assertValidationError(t, err)
}

func TestSetRole_SelfChangeRejected(t *testing.T) {
	svc := NewUserService(noopUserRepo(), nil)
	_, err := svc.SetRole(context.Background(), 1, 1, models.RoleAdmin)
	assertValidationError(t, err)
}

func TestBanUnban(t *testing.T) {
	repo := noopUserRepo()
	var gotStatus models.UserStatus
	repo.updateStatusFn = func(_ context.Context, id uint, status models.UserStatus) error {
		gotStatus = status
		return nil
	}

	svc := NewUserService(repo, nil)

	_, err := svc.Ban(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusBanned, gotStatus)

	_, err = svc.Unban(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, gotStatus)
}

func TestBan_SelfRejected(t *testing.T) {
	svc := NewUserService(noopUserRepo(), nil)
	_, err := svc.Ban(context.Background(), 1, 1)
	assertValidationError(t, err)
}
