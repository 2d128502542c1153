package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/model"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
)

// SessionIDHeader carries the anonymous shopper identity for guest carts
const SessionIDHeader = "X-Session-ID"

// AuthMiddleware validates the JWT token and stores the user identity in the context
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("user_role", claims.Role)

		return next(c)
	}
}

// OptionalAuthMiddleware resolves the shopper identity for routes that serve
// both signed-in users and guests. A valid bearer token sets user_id; otherwise
// the X-Session-ID header identifies a guest cart. Requests without either are
// rejected, because there is no cart to act on.
func OptionalAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtutil.ValidateToken(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("user_role", claims.Role)
			return next(c)
		}

		sessionID := c.Request().Header.Get(SessionIDHeader)
		if sessionID == "" {
			log.Warn("Request carries neither a bearer token nor a session ID")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token or session ID"})
		}

		c.Set("session_id", sessionID)
		return next(c)
	}
}

// AdminMiddleware restricts a route to users carrying the admin role.
// It must run after AuthMiddleware.
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		role, ok := c.Get("user_role").(string)
		if !ok || role != model.RoleAdmin {
			userID, _ := GetUserIDFromContext(c)
			log.Warn("Non-admin user attempted to access admin route",
				zap.Uint("user_id", userID),
				zap.String("path", c.Path()))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
		}

		return next(c)
	}
}

// GetUserIDFromContext retrieves the authenticated user ID from the context.
// Returns 0, false if the request is not authenticated.
func GetUserIDFromContext(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}

// GetSessionIDFromContext retrieves the guest session ID from the context.
// Returns "", false for authenticated requests.
func GetSessionIDFromContext(c echo.Context) (string, bool) {
	sessionID, ok := c.Get("session_id").(string)
	return sessionID, ok
}
