package server

import (
	"fmt"
	"strconv"
	"time"

	"openeyes/internal/cache"
	"openeyes/internal/middleware"
	"openeyes/internal/models"
	"openeyes/internal/observability"
	"openeyes/internal/service"
	"openeyes/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = time.Hour * 24 * 7

// Signup handles POST /api/auth/signup
// @Summary User signup
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Signup request"
// @Success 201 {object} object{token=string,user=models.User}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Validate input
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}

	// Validate username format
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Validate email format
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Validate password strength
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Check if user already exists
	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if existing != nil {
		observability.RecordAuthAttempt("signup", "duplicate")
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("User already exists"))
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Create user; every new account starts as a plain user
	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
		Status:   models.UserStatusActive,
	}

	if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	// Generate JWT token
	token, err := s.generateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	observability.RecordAuthAttempt("signup", "success")
	s.audit.Info(c.Context(), service.LogTypeAuth,
		fmt.Sprintf("user %q registered", user.Username), &user.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,user=models.User}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Find user by email
	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		observability.RecordAuthAttempt("login", "failure")
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	// Compare password
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		observability.RecordAuthAttempt("login", "failure")
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	// Banned accounts keep their data but cannot start sessions
	if user.IsBanned() {
		observability.RecordAuthAttempt("login", "banned")
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Your account has been banned"))
	}

	// Generate JWT token
	token, err := s.generateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	observability.RecordAuthAttempt("login", "success")
	s.audit.Info(c.Context(), service.LogTypeAuth,
		fmt.Sprintf("user %q logged in", user.Username), &user.ID)

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout. The presented token's ID is added to
// the revocation list until its natural expiry. Always responds 200 so the
// client can drop its copy even when the token is already invalid.
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, err := s.parseTokenClaims(c)
	if err == nil {
		if jti, ok := claims["jti"].(string); ok && jti != "" {
			ttl := tokenLifetime
			if exp, ok := claims["exp"].(float64); ok {
				if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
					ttl = remaining
				}
			}
			// Revocation is best effort: the client drops its token either
			// way, and the jti expires with the token itself.
			if revokeErr := cache.RevokeToken(c.Context(), jti, ttl); revokeErr != nil {
				middleware.Logger.WarnContext(c.Context(), "token revocation failed on logout",
					"error", revokeErr)
			}
		}
		if userID, ok := userIDFromClaims(claims); ok {
			s.audit.Info(c.Context(), service.LogTypeAuth, "user logged out", &userID)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// Refresh handles POST /api/auth/refresh. A valid, unrevoked token is
// exchanged for a fresh one and the old token ID is revoked, so each refresh
// rotates the replay window instead of extending it.
func (s *Server) Refresh(c *fiber.Ctx) error {
	claims, err := s.parseTokenClaims(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired token").WithRedirect("/login"))
	}

	userID, ok := userIDFromClaims(claims)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid token structure").WithRedirect("/login"))
	}

	// Re-read role and standing from the database: a demotion or ban takes
	// effect on the next refresh even though the old token was valid.
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if statusForError(err) == fiber.StatusNotFound {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Session no longer valid").WithRedirect("/login"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user.IsBanned() {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Session no longer valid").WithRedirect("/login"))
	}

	token, err := s.generateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Best effort: revoke the old token ID once the replacement is issued.
	if jti, ok := claims["jti"].(string); ok && jti != "" {
		ttl := tokenLifetime
		if exp, ok := claims["exp"].(float64); ok {
			if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
				ttl = remaining
			}
		}
		_ = cache.RevokeToken(c.Context(), jti, ttl)
	}

	observability.RecordAuthAttempt("refresh", "success")

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Session handles GET /api/auth/session. It runs behind OptionalAuth and
// never fails: anonymous callers get authenticated=false with the guest role.
func (s *Server) Session(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.JSON(fiber.Map{
			"authenticated": false,
			"role":          models.RoleGuest,
		})
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if statusForError(err) == fiber.StatusNotFound {
			return c.JSON(fiber.Map{
				"authenticated": false,
				"role":          models.RoleGuest,
			})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user.IsBanned() {
		return c.JSON(fiber.Map{
			"authenticated": false,
			"role":          models.RoleGuest,
		})
	}

	return c.JSON(fiber.Map{
		"authenticated": true,
		"user":          user,
		"role":          user.Role,
		"is_admin":      user.Role == models.RoleAdmin,
		"is_moderator":  user.CanModerate(),
		"is_reporter":   user.CanReport(),
	})
}

// parseTokenClaims validates the bearer token on the request and returns its
// claims. Unlike the auth middleware it exposes the raw claim set, which the
// logout and refresh handlers need for jti/exp bookkeeping.
func (s *Server) parseTokenClaims(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
		return nil, fmt.Errorf("authorization header required")
	}
	tokenString := authHeader[len(prefix):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if jti, ok := claims["jti"].(string); ok && cache.IsTokenRevoked(c.Context(), jti) {
		return nil, fmt.Errorf("token has been revoked")
	}
	return claims, nil
}

func userIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// generateToken creates a JWT token for the given user ID, username and role
func (s *Server) generateToken(userID uint, username string, role models.Role) (string, error) {
	// Validate secret exists
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"username": username,                               // Username (cached in token)
		"role":     string(role),                           // Role at issue time
		"iss":      "openeyes-api",                         // Issuer
		"aud":      "openeyes-client",                      // Audience
		"exp":      now.Add(tokenLifetime).Unix(),          // Expiration (7 days)
		"iat":      now.Unix(),                             // Issued at
		"nbf":      now.Unix(),                             // Not before
		"jti":      s.generateJTI(),                        // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
