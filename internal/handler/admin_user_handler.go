package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
)

// RoleRequest defines the structure for role change requests
type RoleRequest struct {
	Role string `json:"role"`
}

// AdminUserHandler serves the back-office user management routes
type AdminUserHandler struct {
	users *service.UserService
}

func NewAdminUserHandler(users *service.UserService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

// ListUsers returns all accounts, newest first
func (h *AdminUserHandler) ListUsers(c echo.Context) error {
	log := logger.FromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	users, total, err := h.users.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to list users")
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users, "total": total})
}

// SetUserRole changes an account's role
func (h *AdminUserHandler) SetUserRole(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	user, err := h.users.SetRole(c.Request().Context(), uint(userID), req.Role)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to change user role")
	}

	log.Info("User role changed", zap.Uint("user_id", user.ID), zap.String("role", req.Role))
	return c.JSON(http.StatusOK, user)
}
