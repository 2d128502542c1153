package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
)

// AdminProductHandler serves the back-office product and variant routes
type AdminProductHandler struct {
	catalog *service.CatalogService
}

func NewAdminProductHandler(catalog *service.CatalogService) *AdminProductHandler {
	return &AdminProductHandler{catalog: catalog}
}

// GetProduct returns any product by id, archived or not
func (h *AdminProductHandler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := h.catalog.GetProduct(c.Request().Context(), uint(productID))
	if err != nil {
		return writeServiceError(c, log, err, "Failed to retrieve product")
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func (h *AdminProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to create product")
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("slug", product.Slug))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles rewriting a product
func (h *AdminProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	product, err := h.catalog.UpdateProduct(c.Request().Context(), uint(productID), req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to update product")
	}

	log.Info("Product updated", zap.Uint("product_id", product.ID), zap.String("slug", product.Slug))
	return c.JSON(http.StatusOK, product)
}

// ArchiveProduct hides a product from the storefront
func (h *AdminProductHandler) ArchiveProduct(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	if err := h.catalog.ArchiveProduct(c.Request().Context(), uint(productID)); err != nil {
		return writeServiceError(c, log, err, "Failed to archive product")
	}

	log.Info("Product archived", zap.Uint64("product_id", productID))
	return c.NoContent(http.StatusNoContent)
}

// RestoreProduct brings an archived product back to the storefront
func (h *AdminProductHandler) RestoreProduct(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	if err := h.catalog.RestoreProduct(c.Request().Context(), uint(productID)); err != nil {
		return writeServiceError(c, log, err, "Failed to restore product")
	}

	log.Info("Product restored", zap.Uint64("product_id", productID))
	return c.NoContent(http.StatusNoContent)
}

// CreateVariant adds a sellable variant under a product
func (h *AdminProductHandler) CreateVariant(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req service.VariantInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	variant, err := h.catalog.CreateVariant(c.Request().Context(), uint(productID), req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to create variant")
	}

	log.Info("Variant created",
		zap.Uint("variant_id", variant.ID),
		zap.Uint64("product_id", productID),
		zap.String("sku", variant.SKU))
	return c.JSON(http.StatusCreated, variant)
}

// UpdateVariant rewrites a variant, including price and stock corrections
func (h *AdminProductHandler) UpdateVariant(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid variant id"})
	}

	var req service.VariantInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	variant, err := h.catalog.UpdateVariant(c.Request().Context(), uint(productID), uint(variantID), req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to update variant")
	}

	log.Info("Variant updated", zap.Uint("variant_id", variant.ID), zap.String("sku", variant.SKU))
	return c.JSON(http.StatusOK, variant)
}

// ArchiveVariant takes a variant off sale
func (h *AdminProductHandler) ArchiveVariant(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid variant id"})
	}

	if err := h.catalog.ArchiveVariant(c.Request().Context(), uint(productID), uint(variantID)); err != nil {
		return writeServiceError(c, log, err, "Failed to archive variant")
	}

	log.Info("Variant archived", zap.Uint64("variant_id", variantID))
	return c.NoContent(http.StatusNoContent)
}

// RestoreVariant puts an archived variant back on sale
func (h *AdminProductHandler) RestoreVariant(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid variant id"})
	}

	if err := h.catalog.RestoreVariant(c.Request().Context(), uint(productID), uint(variantID)); err != nil {
		return writeServiceError(c, log, err, "Failed to restore variant")
	}

	log.Info("Variant restored", zap.Uint64("variant_id", variantID))
	return c.NoContent(http.StatusNoContent)
}
