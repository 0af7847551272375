package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"openeyes/internal/config"
	"openeyes/internal/models"
	"openeyes/internal/repository"
	"openeyes/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint, includeHidden bool) ([]*models.Post, error) {
	args := m.Called(ctx, userID, limit, offset, currentUserID, includeHidden)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, currentUserID, sort)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByStatus(ctx context.Context, status models.ModerationStatus, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, query, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) SetModerationStatus(ctx context.Context, id uint, status models.ModerationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Count(ctx context.Context, status models.ModerationStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockReactionRepository is a mock of the ReactionRepository interface
type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) Get(ctx context.Context, userID, postID uint) (*models.Reaction, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reaction), args.Error(1)
}

func (m *MockReactionRepository) Upsert(ctx context.Context, userID, postID uint, reactionType models.ReactionType) error {
	args := m.Called(ctx, userID, postID, reactionType)
	return args.Error(0)
}

func (m *MockReactionRepository) Delete(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockReactionRepository) CountsForPost(ctx context.Context, postID uint) (repository.ReactionCounts, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(repository.ReactionCounts), args.Error(1)
}

// fakeAuth injects an authenticated user the way AuthRequired would.
func fakeAuth(userID uint, role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		c.Locals("userRole", role)
		return c.Next()
	}
}

func newForumTestServer(postRepo repository.PostRepository, reactionRepo repository.ReactionRepository) *Server {
	s := &Server{
		config:   &config.Config{JWTSecret: "test_secret"},
		postRepo: postRepo,
	}
	allow := func(ctx context.Context, userID uint) (bool, error) { return false, nil }
	s.postService = service.NewPostService(postRepo, nil, allow)
	if reactionRepo != nil {
		s.reactionService = service.NewReactionService(reactionRepo, postRepo)
	}
	return s
}

func TestCreatePost_StartsPending(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := newForumTestServer(mockRepo, nil)

	app := fiber.New()
	app.Post("/posts", fakeAuth(1, models.RoleUser), s.CreatePost)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.ModerationStatus == models.ModerationPending && p.UserID == uint(1)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Post).ID = 9
	}).Return(nil)
	mockRepo.On("GetByID", mock.Anything, uint(9), uint(1)).Return(&models.Post{
		ID:               9,
		UserID:           1,
		Title:            "Ceasefire broken in the north",
		Content:          "Details from local reporting.",
		ModerationStatus: models.ModerationPending,
	}, nil)

	body, _ := json.Marshal(map[string]string{
		"title":   "Ceasefire broken in the north",
		"content": "Details from local reporting.",
	})
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, models.ModerationPending, post.ModerationStatus)
	mockRepo.AssertExpectations(t)
}

func TestCreatePost_MissingFields(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := newForumTestServer(mockRepo, nil)

	app := fiber.New()
	app.Post("/posts", fakeAuth(1, models.RoleUser), s.CreatePost)

	body, _ := json.Marshal(map[string]string{"title": "No content"})
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetPost_NotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := newForumTestServer(mockRepo, nil)

	app := fiber.New()
	app.Get("/posts/:id", s.GetPost)

	mockRepo.On("GetByID", mock.Anything, uint(404), uint(0)).Return(nil, gorm.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/posts/404", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetUserPosts_PublicSeesApprovedOnly(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := newForumTestServer(mockRepo, nil)

	app := fiber.New()
	app.Get("/users/:id/posts", s.GetUserPosts)

	approved := []*models.Post{
		{ID: 2, UserID: 7, Title: "Field report", ModerationStatus: models.ModerationApproved},
	}
	mockRepo.On("GetByUserID", mock.Anything, uint(7), 20, 0, uint(0), false).
		Return(approved, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/7/posts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestReactToPost_Toggle(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockReactions := new(MockReactionRepository)
	s := newForumTestServer(mockPosts, mockReactions)

	app := fiber.New()
	app.Post("/posts/:id/react", fakeAuth(4, models.RoleUser), s.ReactToPost)

	approved := &models.Post{
		ID:               12,
		UserID:           2,
		ModerationStatus: models.ModerationApproved,
		LikesCount:       3,
	}

	// User already likes the post: liking again removes the reaction.
	mockPosts.On("GetByID", mock.Anything, uint(12), mock.Anything).Return(approved, nil)
	mockReactions.On("Get", mock.Anything, uint(4), uint(12)).Return(&models.Reaction{
		UserID: 4,
		PostID: 12,
		Type:   models.ReactionLike,
	}, nil)
	mockReactions.On("Delete", mock.Anything, uint(4), uint(12)).Return(nil)

	body, _ := json.Marshal(map[string]string{"type": "like"})
	req := httptest.NewRequest(http.MethodPost, "/posts/12/react", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mockReactions.AssertCalled(t, "Delete", mock.Anything, uint(4), uint(12))
	mockReactions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReactToPost_InvalidType(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockReactions := new(MockReactionRepository)
	s := newForumTestServer(mockPosts, mockReactions)

	app := fiber.New()
	app.Post("/posts/:id/react", fakeAuth(4, models.RoleUser), s.ReactToPost)

	body, _ := json.Marshal(map[string]string{"type": "love"})
	req := httptest.NewRequest(http.MethodPost, "/posts/12/react", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
