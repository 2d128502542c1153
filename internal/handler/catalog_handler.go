package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
)

// CatalogHandler serves the public storefront browse routes
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Home returns the storefront landing page feed: featured products, best
// sellers, combo deals and the top-level categories
func (h *CatalogHandler) Home(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	featured, err := h.catalog.FeaturedProducts(ctx, 5)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load featured products")
	}
	bestSellers, err := h.catalog.BestSellers(ctx, 6)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load best sellers")
	}
	comboDeals, err := h.catalog.ComboDeals(ctx, 8)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load combo deals")
	}
	categories, err := h.catalog.MainCategories(ctx, 8)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load categories")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"featured_products": featured,
		"best_sellers":      bestSellers,
		"combo_deals":       comboDeals,
		"main_categories":   categories,
	})
}

// ListProducts handles storefront product browsing with search and
// category filters
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	filter := service.ProductListFilter{Search: c.QueryParam("search")}
	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			log.Warn("Invalid category_id parameter", zap.String("value", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
		}
		filter.CategoryID = uint(categoryID)
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	products, total, err := h.catalog.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to retrieve products")
	}

	log.Info("Products retrieved", zap.Int("count", len(products)), zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{"products": products, "total": total})
}

// GetProduct returns a product page by its URL slug
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	productSlug := c.Param("slug")

	product, err := h.catalog.GetProductBySlug(c.Request().Context(), productSlug)
	if err != nil {
		log.Warn("Product not found", zap.String("slug", productSlug))
		return writeServiceError(c, log, err, "Failed to retrieve product")
	}

	return c.JSON(http.StatusOK, product)
}

// ListCategories returns every category for the storefront navigation
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return writeServiceError(c, log, err, "Failed to retrieve categories")
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory returns a category browse page by its URL slug, including
// its products
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	log := logger.FromContext(c)
	categorySlug := c.Param("slug")

	category, err := h.catalog.GetCategoryBySlug(c.Request().Context(), categorySlug)
	if err != nil {
		log.Warn("Category not found", zap.String("slug", categorySlug))
		return writeServiceError(c, log, err, "Failed to retrieve category")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	products, total, err := h.catalog.ListProducts(c.Request().Context(), service.ProductListFilter{
		CategoryID: category.ID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return writeServiceError(c, log, err, "Failed to retrieve category products")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"category": category,
		"products": products,
		"total":    total,
	})
}
