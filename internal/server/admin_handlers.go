package server

import (
	"openeyes/internal/models"
	"openeyes/internal/notifications"
	"openeyes/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetAllUsers handles GET /api/admin/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// BanUser handles POST /api/admin/users/:id/ban
func (s *Server) BanUser(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.Ban(c.Context(), actorID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UnbanUser handles POST /api/admin/users/:id/unban
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.Unban(c.Context(), actorID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// SetUserRole handles POST /api/admin/users/:id/role
func (s *Server) SetUserRole(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.SetRole(c.Context(), actorID, targetID, models.Role(req.Role))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetModerationQueue handles GET /api/admin/moderation
func (s *Server) GetModerationQueue(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.postService.ModerationQueue(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// ApprovePost handles POST /api/admin/moderation/:id/approve
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	return s.moderatePost(c, models.ModerationApproved)
}

// RejectPost handles POST /api/admin/moderation/:id/reject
func (s *Server) RejectPost(c *fiber.Ctx) error {
	return s.moderatePost(c, models.ModerationRejected)
}

func (s *Server) moderatePost(c *fiber.Ctx, status models.ModerationStatus) error {
	moderatorID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Moderate(c.Context(), moderatorID, postID, status)
	if err != nil {
		return respondServiceError(c, err)
	}

	// The author learns about the decision even when offline peers hold
	// their connection; approved posts also go out as a broadcast.
	s.publishUserEvent(post.UserID, notifications.EventPostModerated, map[string]interface{}{
		"post_id": post.ID,
		"status":  post.ModerationStatus,
	})
	if post.ModerationStatus == models.ModerationApproved {
		s.publishBroadcastEvent(notifications.EventPostCreated, map[string]interface{}{
			"post_id":   post.ID,
			"author_id": post.UserID,
		})
	}

	return c.JSON(post)
}

// GetActivityLogs handles GET /api/admin/logs with level/type/user filters.
func (s *Server) GetActivityLogs(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	filter := repository.ActivityLogFilter{
		Level:   models.LogLevel(c.Query("level")),
		LogType: c.Query("type"),
		UserID:  uint(c.QueryInt("user_id", 0)),
	}

	logs, err := s.logRepo.List(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(logs)
}

// GetFeatureFlags handles GET /api/admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	return c.JSON(fiber.Map{
		"flags":    s.featureFlags.Raw(),
		"resolved": s.featureFlags.Snapshot(userID),
	})
}

// ImportWikipedia handles POST /api/import/wikipedia
func (s *Server) ImportWikipedia(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)

	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.wikiImporter.ImportConflicts(c.Context(), actorID, req.URL)
	if err != nil {
		return respondServiceError(c, err)
	}

	if result.Imported > 0 {
		s.publishBroadcastEvent(notifications.EventRecordsImported, map[string]interface{}{
			"source":   "wikipedia",
			"imported": result.Imported,
			"skipped":  result.Skipped,
		})
	}

	return c.JSON(result)
}
