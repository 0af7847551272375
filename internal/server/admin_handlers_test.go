package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"openeyes/internal/config"
	"openeyes/internal/featureflags"
	"openeyes/internal/models"
	"openeyes/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminTestServer(userRepo *MockUserRepository, postRepo *MockPostRepository) *Server {
	s := &Server{
		config:       &config.Config{JWTSecret: "test_secret"},
		userRepo:     userRepo,
		featureFlags: featureflags.NewManager(""),
	}
	if userRepo != nil {
		s.userService = service.NewUserService(userRepo, nil)
	}
	if postRepo != nil {
		s.postService = service.NewPostService(postRepo, nil, nil)
	}
	return s
}

func TestApprovePost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	s := newAdminTestServer(nil, mockPosts)

	app := fiber.New()
	app.Post("/moderation/:id/approve", fakeAuth(1, models.RoleModerator), s.ApprovePost)

	mockPosts.On("SetModerationStatus", mock.Anything, uint(7), models.ModerationApproved).Return(nil)
	mockPosts.On("GetByID", mock.Anything, uint(7), uint(1)).Return(&models.Post{
		ID:               7,
		UserID:           3,
		ModerationStatus: models.ModerationApproved,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/moderation/7/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var post models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, models.ModerationApproved, post.ModerationStatus)
	mockPosts.AssertExpectations(t)
}

func TestRejectPost_InvalidID(t *testing.T) {
	mockPosts := new(MockPostRepository)
	s := newAdminTestServer(nil, mockPosts)

	app := fiber.New()
	app.Post("/moderation/:id/reject", fakeAuth(1, models.RoleModerator), s.RejectPost)

	req := httptest.NewRequest(http.MethodPost, "/moderation/abc/reject", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	mockPosts.AssertNotCalled(t, "SetModerationStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetModerationQueue(t *testing.T) {
	mockPosts := new(MockPostRepository)
	s := newAdminTestServer(nil, mockPosts)

	app := fiber.New()
	app.Get("/moderation", fakeAuth(1, models.RoleModerator), s.GetModerationQueue)

	mockPosts.On("ListByStatus", mock.Anything, models.ModerationPending, 20, 0).Return([]*models.Post{
		{ID: 1, ModerationStatus: models.ModerationPending},
		{ID: 2, ModerationStatus: models.ModerationPending},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/moderation", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.Len(t, posts, 2)
}

func TestSetUserRole(t *testing.T) {
	mockUsers := new(MockUserRepository)
	s := newAdminTestServer(mockUsers, nil)

	app := fiber.New()
	app.Post("/users/:id/role", fakeAuth(1, models.RoleAdmin), s.SetUserRole)

	t.Run("Promote To Reporter", func(t *testing.T) {
		mockUsers.On("UpdateRole", mock.Anything, uint(8), models.RoleReporter).Return(nil).Once()
		mockUsers.On("GetByID", mock.Anything, uint(8)).Return(&models.User{
			ID:   8,
			Role: models.RoleReporter,
		}, nil).Once()

		body, _ := json.Marshal(map[string]string{"role": "reporter"})
		req := httptest.NewRequest(http.MethodPost, "/users/8/role", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Guest Not Assignable", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"role": "guest"})
		req := httptest.NewRequest(http.MethodPost, "/users/8/role", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Own Role Rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"role": "user"})
		req := httptest.NewRequest(http.MethodPost, "/users/1/role", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestBanUser(t *testing.T) {
	mockUsers := new(MockUserRepository)
	s := newAdminTestServer(mockUsers, nil)

	app := fiber.New()
	app.Post("/users/:id/ban", fakeAuth(1, models.RoleAdmin), s.BanUser)

	t.Run("Success", func(t *testing.T) {
		mockUsers.On("UpdateStatus", mock.Anything, uint(5), models.UserStatusBanned).Return(nil).Once()
		mockUsers.On("GetByID", mock.Anything, uint(5)).Return(&models.User{
			ID:     5,
			Status: models.UserStatusBanned,
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/users/5/ban", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var user models.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
		assert.Equal(t, models.UserStatusBanned, user.Status)
	})

	t.Run("Self Ban Rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users/1/ban", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockUsers.AssertNotCalled(t, "UpdateStatus", mock.Anything, uint(1), mock.Anything)
	})
}

func TestGetFeatureFlags(t *testing.T) {
	s := newAdminTestServer(nil, nil)
	s.featureFlags = featureflags.NewManager("new_dashboard=on,dark_mode=off")

	app := fiber.New()
	app.Get("/feature-flags", fakeAuth(1, models.RoleAdmin), s.GetFeatureFlags)

	req := httptest.NewRequest(http.MethodGet, "/feature-flags", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Flags    map[string]string `json:"flags"`
		Resolved map[string]bool   `json:"resolved"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload.Flags, "new_dashboard")
	assert.True(t, payload.Resolved["new_dashboard"])
	assert.False(t, payload.Resolved["dark_mode"])
}
