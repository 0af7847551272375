package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"openeyes/internal/config"
	"openeyes/internal/models"
	"openeyes/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNavigation_ByRole(t *testing.T) {
	s := &Server{config: &config.Config{}}

	app := fiber.New()
	app.Get("/navigation", s.Navigation)
	app.Get("/navigation-admin", fakeAuth(1, models.RoleAdmin), s.Navigation)

	itemTitles := func(t *testing.T, resp *http.Response) []string {
		t.Helper()
		var payload struct {
			Role  models.Role `json:"role"`
			Items []struct {
				Title string `json:"title"`
			} `json:"items"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		titles := make([]string, 0, len(payload.Items))
		for _, item := range payload.Items {
			titles = append(titles, item.Title)
		}
		return titles
	}

	t.Run("Guest Menu Excludes Admin Pages", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/navigation", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		titles := itemTitles(t, resp)
		assert.NotEmpty(t, titles)
		assert.NotContains(t, titles, "Admin")
	})

	t.Run("Admin Menu Is A Superset", func(t *testing.T) {
		guestReq := httptest.NewRequest(http.MethodGet, "/navigation", nil)
		guestResp, err := app.Test(guestReq)
		require.NoError(t, err)
		defer func() { _ = guestResp.Body.Close() }()
		guestTitles := itemTitles(t, guestResp)

		adminReq := httptest.NewRequest(http.MethodGet, "/navigation-admin", nil)
		adminResp, err := app.Test(adminReq)
		require.NoError(t, err)
		defer func() { _ = adminResp.Body.Close() }()
		adminTitles := itemTitles(t, adminResp)

		assert.Greater(t, len(adminTitles), len(guestTitles))
		for _, title := range guestTitles {
			assert.Contains(t, adminTitles, title)
		}
	})
}

func TestUpdateMyProfile(t *testing.T) {
	mockUsers := new(MockUserRepository)
	s := &Server{
		config:   &config.Config{},
		userRepo: mockUsers,
	}
	s.userService = service.NewUserService(mockUsers, nil)

	app := fiber.New()
	app.Put("/users/me", fakeAuth(2, models.RoleUser), s.UpdateMyProfile)

	t.Run("Success", func(t *testing.T) {
		mockUsers.On("GetByID", mock.Anything, uint(2)).Return(&models.User{
			ID:       2,
			Username: "old_name",
		}, nil)
		mockUsers.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "new_name" && u.Work == "Field reporter"
		})).Return(nil).Once()

		body, _ := json.Marshal(map[string]string{
			"username": "new_name",
			"work":     "Field reporter",
		})
		req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Invalid Username", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"username": "x"})
		req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
