package server

import (
	"openeyes/internal/models"
	"openeyes/internal/repository"
	"openeyes/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Conflicts

// GetConflicts handles GET /api/conflicts with optional region/status/search filters.
func (s *Server) GetConflicts(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	filter := repository.ConflictFilter{
		Region: c.Query("region"),
		Status: models.ConflictStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	conflicts, err := s.resourceService.ListConflicts(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(conflicts)
}

// GetConflict handles GET /api/conflicts/:id
func (s *Server) GetConflict(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	conflict, err := s.resourceService.GetConflict(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(conflict)
}

// CreateConflict handles POST /api/conflicts
func (s *Server) CreateConflict(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	var in service.ConflictInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	conflict, err := s.resourceService.CreateConflict(c.Context(), userID, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conflict)
}

// UpdateConflict handles PUT /api/conflicts/:id
func (s *Server) UpdateConflict(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.ConflictInput
	if parseErr := c.BodyParser(&in); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	conflict, err := s.resourceService.UpdateConflict(c.Context(), userID, id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(conflict)
}

// DeleteConflict handles DELETE /api/conflicts/:id
func (s *Server) DeleteConflict(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.resourceService.DeleteConflict(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Countries

// GetCountries handles GET /api/countries with an optional name search.
func (s *Server) GetCountries(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	countries, err := s.resourceService.ListCountries(c.Context(), c.Query("search"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(countries)
}

// GetCountry handles GET /api/countries/:id
func (s *Server) GetCountry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	country, err := s.resourceService.GetCountry(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(country)
}

// CreateCountry handles POST /api/countries
func (s *Server) CreateCountry(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	var in service.CountryInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	country, err := s.resourceService.CreateCountry(c.Context(), userID, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(country)
}

// UpdateCountry handles PUT /api/countries/:id
func (s *Server) UpdateCountry(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.CountryInput
	if parseErr := c.BodyParser(&in); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	country, err := s.resourceService.UpdateCountry(c.Context(), userID, id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(country)
}

// DeleteCountry handles DELETE /api/countries/:id
func (s *Server) DeleteCountry(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.resourceService.DeleteCountry(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Violations

// GetViolations handles GET /api/violations with type/country/severity filters.
func (s *Server) GetViolations(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	filter := repository.ViolationFilter{
		Type:     c.Query("type"),
		Country:  c.Query("country"),
		Severity: models.Severity(c.Query("severity")),
	}
	violations, err := s.resourceService.ListViolations(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(violations)
}

// GetViolation handles GET /api/violations/:id
func (s *Server) GetViolation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	violation, err := s.resourceService.GetViolation(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(violation)
}

// CreateViolation handles POST /api/violations
func (s *Server) CreateViolation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	var in service.ViolationInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	violation, err := s.resourceService.CreateViolation(c.Context(), userID, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(violation)
}

// UpdateViolation handles PUT /api/violations/:id
func (s *Server) UpdateViolation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.ViolationInput
	if parseErr := c.BodyParser(&in); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	violation, err := s.resourceService.UpdateViolation(c.Context(), userID, id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(violation)
}

// DeleteViolation handles DELETE /api/violations/:id
func (s *Server) DeleteViolation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.resourceService.DeleteViolation(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UN declarations

// GetDeclarations handles GET /api/un-declarations with an optional status filter.
func (s *Server) GetDeclarations(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	status := models.DeclarationStatus(c.Query("status"))
	declarations, err := s.resourceService.ListDeclarations(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(declarations)
}

// GetDeclaration handles GET /api/un-declarations/:id
func (s *Server) GetDeclaration(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	declaration, err := s.resourceService.GetDeclaration(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(declaration)
}

// CreateDeclaration handles POST /api/un-declarations
func (s *Server) CreateDeclaration(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	var in service.DeclarationInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	declaration, err := s.resourceService.CreateDeclaration(c.Context(), userID, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(declaration)
}

// UpdateDeclaration handles PUT /api/un-declarations/:id
func (s *Server) UpdateDeclaration(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.DeclarationInput
	if parseErr := c.BodyParser(&in); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	declaration, err := s.resourceService.UpdateDeclaration(c.Context(), userID, id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(declaration)
}

// DeleteDeclaration handles DELETE /api/un-declarations/:id
func (s *Server) DeleteDeclaration(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.resourceService.DeleteDeclaration(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Natural disasters

// GetDisasters handles GET /api/natural-disasters with an optional type filter.
func (s *Server) GetDisasters(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	disasters, err := s.resourceService.ListDisasters(c.Context(), c.Query("type"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(disasters)
}

// GetDisaster handles GET /api/natural-disasters/:id
func (s *Server) GetDisaster(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	disaster, err := s.resourceService.GetDisaster(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(disaster)
}

// CreateDisaster handles POST /api/natural-disasters
func (s *Server) CreateDisaster(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	var in service.DisasterInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	disaster, err := s.resourceService.CreateDisaster(c.Context(), userID, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(disaster)
}

// UpdateDisaster handles PUT /api/natural-disasters/:id
func (s *Server) UpdateDisaster(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.DisasterInput
	if parseErr := c.BodyParser(&in); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	disaster, err := s.resourceService.UpdateDisaster(c.Context(), userID, id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(disaster)
}

// DeleteDisaster handles DELETE /api/natural-disasters/:id
func (s *Server) DeleteDisaster(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.resourceService.DeleteDisaster(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
