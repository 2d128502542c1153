package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
)

// AdminCategoryHandler serves the back-office category routes
type AdminCategoryHandler struct {
	catalog *service.CatalogService
}

func NewAdminCategoryHandler(catalog *service.CatalogService) *AdminCategoryHandler {
	return &AdminCategoryHandler{catalog: catalog}
}

// CreateCategory handles creating a new category
func (h *AdminCategoryHandler) CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.CategoryInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	category, err := h.catalog.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to create category")
	}

	log.Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name),
		zap.String("slug", category.Slug))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles renaming a category
func (h *AdminCategoryHandler) UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	var req service.CategoryInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	category, err := h.catalog.UpdateCategory(c.Request().Context(), uint(categoryID), req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to update category")
	}

	log.Info("Category updated", zap.Uint("category_id", category.ID), zap.String("slug", category.Slug))
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes an empty category
func (h *AdminCategoryHandler) DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	if err := h.catalog.DeleteCategory(c.Request().Context(), uint(categoryID)); err != nil {
		return writeServiceError(c, log, err, "Failed to delete category")
	}

	log.Info("Category deleted", zap.Uint64("category_id", categoryID))
	return c.NoContent(http.StatusNoContent)
}
