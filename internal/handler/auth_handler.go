package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/middleware"
	"storefront-service/internal/service"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
)

// RegisterRequest defines the structure for account registration requests
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileRequest defines the structure for profile update requests
type ProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AuthHandler serves registration, login and profile routes
type AuthHandler struct {
	users *service.UserService
	carts *service.CartService
}

func NewAuthHandler(users *service.UserService, carts *service.CartService) *AuthHandler {
	return &AuthHandler{users: users, carts: carts}
}

// NewSession issues an anonymous session token for guest shopping.
// The client sends it back on every request in the X-Session-ID header.
func (h *AuthHandler) NewSession(c echo.Context) error {
	sessionID := uuid.New().String()
	logger.FromContext(c).Info("Issued guest session", zap.String("session_id", sessionID))
	return c.JSON(http.StatusCreated, echo.Map{"session_id": sessionID})
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	user, err := h.users.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		log.Warn("Registration failed", zap.String("email", req.Email), zap.Error(err))
		return writeServiceError(c, log, err, "Failed to register user")
	}

	log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate token"})
	}

	// A guest cart built before sign-up follows the shopper into the account
	h.mergeGuestCart(c, user.ID)

	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// Login handles credential checks and token issuance. A guest cart identified
// by the X-Session-ID header is folded into the user's cart on success.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		prometheus.AuthErrorsCounter.Inc()
		log.Warn("Login failed", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate token"})
	}

	h.mergeGuestCart(c, user.ID)

	prometheus.AuthSuccessCounter.Inc()
	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// Profile returns the authenticated user's account
func (h *AuthHandler) Profile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	user, err := h.users.Get(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile rewrites the authenticated user's name and phone
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), userID, req.Name, req.Phone)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to update profile")
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, user)
}

// mergeGuestCart folds the session cart into the user's cart. Merge failures
// never fail the login; they are logged and the guest cart stays behind.
func (h *AuthHandler) mergeGuestCart(c echo.Context, userID uint) {
	sessionID := c.Request().Header.Get(middleware.SessionIDHeader)
	if sessionID == "" {
		return
	}

	log := logger.FromContext(c)
	if err := h.carts.MergeGuestCart(c.Request().Context(), userID, sessionID); err != nil {
		log.Error("Failed to merge guest cart",
			zap.Uint("user_id", userID),
			zap.String("session_id", sessionID),
			zap.Error(err))
		return
	}
	log.Info("Guest cart merged",
		zap.Uint("user_id", userID),
		zap.String("session_id", sessionID))
}
