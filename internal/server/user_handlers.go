package server

import (
	"openeyes/internal/models"
	"openeyes/internal/navigation"
	"openeyes/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Navigation handles GET /api/navigation. It returns the menu items for the
// caller's role; anonymous callers get the guest menu.
func (s *Server) Navigation(c *fiber.Ctx) error {
	role, ok := c.Locals("userRole").(models.Role)
	if !ok {
		role = models.RoleGuest
	}
	return c.JSON(fiber.Map{
		"role":  role,
		"items": navigation.MenuFor(role),
	})
}

// DashboardMetrics handles GET /api/dashboard/metrics
func (s *Server) DashboardMetrics(c *fiber.Ctx) error {
	metrics, err := s.dashboard.Metrics(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(metrics)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByIDWithPosts(c.Context(), userID, 10, true)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
		Title     string `json:"title"`
		Work      string `json:"work"`
		Website   string `json:"website"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    userID,
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
		Title:     req.Title,
		Work:      req.Work,
		Website:   req.Website,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID := c.Locals("userID").(uint)
	viewerRole, _ := c.Locals("userRole").(models.Role)
	includeHidden := viewerID == id || viewerRole.CanModerate()

	user, err := s.userRepo.GetByIDWithPosts(c.Context(), id, 10, includeHidden)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
