package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"openeyes/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	app := fiber.New()

	var got Pagination
	app.Get("/items", func(c *fiber.Ctx) error {
		got = parsePagination(c, 20)
		return c.SendStatus(http.StatusOK)
	})

	tests := []struct {
		name     string
		url      string
		expected Pagination
	}{
		{"Defaults", "/items", Pagination{Limit: 20, Offset: 0}},
		{"Explicit", "/items?limit=5&offset=10", Pagination{Limit: 5, Offset: 10}},
		{"Clamped To Max", "/items?limit=500", Pagination{Limit: 100, Offset: 0}},
		{"Negative Values", "/items?limit=-1&offset=-5", Pagination{Limit: 20, Offset: 0}},
		{"Zero Limit", "/items?limit=0", Pagination{Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	s := &Server{}

	app.Get("/things/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		name           string
		url            string
		expectedStatus int
	}{
		{"Valid", "/things/42", http.StatusOK},
		{"Zero", "/things/0", http.StatusBadRequest},
		{"Negative", "/things/-3", http.StatusBadRequest},
		{"Not A Number", "/things/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "comment ID", humanizeParam("commentId"))
	assert.Equal(t, "post ID", humanizeParam("postId"))
	assert.Equal(t, "weird", humanizeParam("weird"))
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"Not Found", models.NewNotFoundError("Post", 1), http.StatusNotFound},
		{"Validation", models.NewValidationError("bad input"), http.StatusBadRequest},
		{"Unauthorized", models.NewUnauthorizedError("nope"), http.StatusUnauthorized},
		{"Forbidden", models.NewForbiddenError("nope"), http.StatusForbidden},
		{"Internal", models.NewInternalError(errors.New("boom")), http.StatusInternalServerError},
		{"Plain Error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusForError(tt.err))
		})
	}
}
