// Package middleware provides authentication, authorization and request
// instrumentation middleware for the application.
package middleware

import (
	"context"
	"strconv"
	"strings"

	"openeyes/internal/config"
	"openeyes/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// revocationChecker reports whether a token ID has been revoked (logout).
// Injected at startup to avoid a dependency on the cache package here.
var revocationChecker func(ctx context.Context, jti string) bool

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// SetRevocationChecker registers the function used to check token revocation.
func SetRevocationChecker(fn func(ctx context.Context, jti string) bool) {
	revocationChecker = fn
}

// claimsFromToken validates a signed token string and extracts the user ID,
// role and token ID. Returns a non-nil error for any malformed, expired or
// revoked token.
func claimsFromToken(ctx context.Context, tokenString string) (uint, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	// Subject claim carries the user ID per RFC 7519.
	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}
	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	role := models.RoleUser
	if roleStr, ok := claims["role"].(string); ok && models.Role(roleStr).Valid() {
		role = models.Role(roleStr)
	}

	if jti, ok := claims["jti"].(string); ok && revocationChecker != nil {
		if revocationChecker(ctx, jti) {
			return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Token has been revoked")
		}
	}

	return uint(userIDVal), role, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}
	return parts[1], nil
}

// AuthRequired is a middleware that enforces authentication for protected routes.
// On failure it responds 401 with a redirect hint to the login page.
func AuthRequired(c *fiber.Ctx) error {
	tokenString, err := bearerToken(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    err.Error(),
			"redirect": "/login",
		})
	}

	userID, role, err := claimsFromToken(c.UserContext(), tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    err.Error(),
			"redirect": "/login",
		})
	}

	c.Locals("userID", userID)
	c.Locals("userRole", role)

	return c.Next()
}

// OptionalAuth resolves the caller's identity when a valid token is present
// and otherwise continues as an anonymous guest. It never rejects a request;
// an invalid or expired token simply degrades to the guest role.
func OptionalAuth(c *fiber.Ctx) error {
	c.Locals("userRole", models.RoleGuest)

	tokenString, err := bearerToken(c)
	if err != nil {
		return c.Next()
	}

	userID, role, err := claimsFromToken(c.UserContext(), tokenString)
	if err != nil {
		return c.Next()
	}

	c.Locals("userID", userID)
	c.Locals("userRole", role)

	return c.Next()
}

// RoleRequired restricts a route to the given roles. It must run after
// AuthRequired. A caller with a valid session but the wrong role gets 403
// with a redirect hint back to the dashboard.
func RoleRequired(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(models.Role)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "Authentication required",
				"redirect": "/login",
			})
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":    "Insufficient permissions",
			"redirect": "/",
		})
	}
}

// WebSocketAuthRequired validates JWT tokens from query parameters for
// WebSocket connections, falling back to the Authorization header.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		var err error
		token, err = bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}
	}

	userID, role, err := claimsFromToken(c.UserContext(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("userID", userID)
	c.Locals("userRole", role)

	return c.Next()
}
