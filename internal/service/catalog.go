package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// ProductInput carries the writable product fields
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	CategoryID  uint   `json:"category_id"`
	Featured    bool   `json:"featured"`
}

// VariantInput carries the writable variant fields
type VariantInput struct {
	SKU            string           `json:"sku"`
	VariantName    string           `json:"variant_name"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	StockQuantity  int              `json:"stock_quantity"`
	IsComboDeal    bool             `json:"is_combo_deal"`
}

// CategoryInput carries the writable category fields
type CategoryInput struct {
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

// ProductListFilter narrows storefront product listings
type ProductListFilter struct {
	Search     string
	CategoryID uint
	Page       int
	PageSize   int
}

// CatalogService manages products, variants and categories
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// assignSlug computes a URL slug from the name and suffixes it with a
// counter until it is unique in the table. Uniqueness is also enforced by
// the store-level constraint; the loop just avoids tripping it.
func assignSlug(tx *gorm.DB, tableModel interface{}, name string, excludeID uint) (string, error) {
	base := slug.Make(name)
	candidate := base
	for i := 2; ; i++ {
		var count int64
		query := tx.Model(tableModel).Where("slug = ?", candidate)
		if excludeID != 0 {
			query = query.Where("id != ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// ListProducts returns non-archived products with optional search and
// category filters
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductListFilter) ([]model.Product, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 12
	}

	query := s.db.WithContext(ctx).Model(&model.Product{}).Where("archived_at IS NULL")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR brand LIKE ?", pattern, pattern, pattern)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	err := query.Preload("Variants", "archived_at IS NULL").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

// GetProductBySlug returns a non-archived product with its live variants
func (s *CatalogService) GetProductBySlug(ctx context.Context, productSlug string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Preload("Variants", "archived_at IS NULL").
		Where("slug = ? AND archived_at IS NULL", productSlug).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetProduct returns a product by id, archived or not (admin)
func (s *CatalogService) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Preload("Variants").
		First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FeaturedProducts returns featured products for the storefront, newest
// first, falling back to the newest products when nothing is flagged
func (s *CatalogService) FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit < 1 {
		limit = 5
	}

	var products []model.Product
	err := s.db.WithContext(ctx).
		Preload("Variants", "archived_at IS NULL").
		Where("featured = ? AND archived_at IS NULL", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return products, nil
	}

	err = s.db.WithContext(ctx).
		Preload("Variants", "archived_at IS NULL").
		Where("archived_at IS NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// BestSellers ranks products by total quantity sold across order lines
func (s *CatalogService) BestSellers(ctx context.Context, limit int) ([]model.Product, error) {
	if limit < 1 {
		limit = 6
	}

	var products []model.Product
	err := s.db.WithContext(ctx).Model(&model.Product{}).
		Joins("JOIN product_variants ON product_variants.product_id = products.id").
		Joins("JOIN order_items ON order_items.product_variant_id = product_variants.id").
		Where("products.archived_at IS NULL").
		Group("products.id").
		Order("SUM(order_items.quantity) DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// ComboDeals returns live combo-deal variants with their products
func (s *CatalogService) ComboDeals(ctx context.Context, limit int) ([]model.ProductVariant, error) {
	if limit < 1 {
		limit = 8
	}

	var variants []model.ProductVariant
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("is_combo_deal = ? AND archived_at IS NULL", true).
		Limit(limit).
		Find(&variants).Error
	return variants, err
}

// CreateProduct saves a new product and assigns its slug from the name
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	if in.Name == "" || in.Description == "" || in.Brand == "" {
		return nil, fmt.Errorf("%w: name, description and brand are required", ErrValidation)
	}

	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category", ErrNotFound)
		}
		return nil, err
	}

	product := &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		CategoryID:  in.CategoryID,
		Featured:    in.Featured,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productSlug, err := assignSlug(tx, &model.Product{}, in.Name, 0)
		if err != nil {
			return err
		}
		product.Slug = productSlug
		return tx.Create(product).Error
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct rewrites a product; a rename recomputes the slug
func (s *CatalogService) UpdateProduct(ctx context.Context, productID uint, in ProductInput) (*model.Product, error) {
	if in.Name == "" || in.Description == "" || in.Brand == "" {
		return nil, fmt.Errorf("%w: name, description and brand are required", ErrValidation)
	}

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Name != product.Name {
			productSlug, err := assignSlug(tx, &model.Product{}, in.Name, product.ID)
			if err != nil {
				return err
			}
			product.Slug = productSlug
		}
		product.Name = in.Name
		product.Description = in.Description
		product.Brand = in.Brand
		product.CategoryID = in.CategoryID
		product.Featured = in.Featured
		return tx.Save(product).Error
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ArchiveProduct hides the product (and nothing else) from the storefront.
// Products referenced by orders are never hard-deleted.
func (s *CatalogService) ArchiveProduct(ctx context.Context, productID uint) error {
	now := time.Now()
	return s.setProductArchived(ctx, productID, &now)
}

// RestoreProduct brings an archived product back
func (s *CatalogService) RestoreProduct(ctx context.Context, productID uint) error {
	return s.setProductArchived(ctx, productID, nil)
}

func (s *CatalogService) setProductArchived(ctx context.Context, productID uint, at *time.Time) error {
	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("archived_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateVariant adds a sellable variant under a product
func (s *CatalogService) CreateVariant(ctx context.Context, productID uint, in VariantInput) (*model.ProductVariant, error) {
	if err := validateVariantInput(in); err != nil {
		return nil, err
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("sku = ?", in.SKU).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: sku already exists", ErrValidation)
	}

	variant := &model.ProductVariant{
		ProductID:      productID,
		SKU:            in.SKU,
		VariantName:    in.VariantName,
		Price:          in.Price,
		CompareAtPrice: in.CompareAtPrice,
		StockQuantity:  in.StockQuantity,
		IsComboDeal:    in.IsComboDeal,
	}
	if err := s.db.WithContext(ctx).Create(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateVariant rewrites a variant. Stock corrections go through here or
// through StockService.Restock; checkout decrements never do.
func (s *CatalogService) UpdateVariant(ctx context.Context, productID, variantID uint, in VariantInput) (*model.ProductVariant, error) {
	if err := validateVariantInput(in); err != nil {
		return nil, err
	}

	variant, err := s.getVariant(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	if in.SKU != variant.SKU {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.ProductVariant{}).
			Where("sku = ? AND id != ?", in.SKU, variantID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: sku already exists", ErrValidation)
		}
	}

	variant.SKU = in.SKU
	variant.VariantName = in.VariantName
	variant.Price = in.Price
	variant.CompareAtPrice = in.CompareAtPrice
	variant.StockQuantity = in.StockQuantity
	variant.IsComboDeal = in.IsComboDeal
	if err := s.db.WithContext(ctx).Save(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

// ArchiveVariant takes the variant off sale; order lines keep referencing it
func (s *CatalogService) ArchiveVariant(ctx context.Context, productID, variantID uint) error {
	variant, err := s.getVariant(ctx, productID, variantID)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.db.WithContext(ctx).Model(variant).Update("archived_at", &now).Error
}

// RestoreVariant puts an archived variant back on sale
func (s *CatalogService) RestoreVariant(ctx context.Context, productID, variantID uint) error {
	variant, err := s.getVariant(ctx, productID, variantID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(variant).Update("archived_at", nil).Error
}

func (s *CatalogService) getVariant(ctx context.Context, productID, variantID uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := s.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", variantID, productID).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

func validateVariantInput(in VariantInput) error {
	if in.SKU == "" || in.VariantName == "" {
		return fmt.Errorf("%w: sku and variant_name are required", ErrValidation)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if in.StockQuantity < 0 {
		return fmt.Errorf("%w: stock_quantity must not be negative", ErrValidation)
	}
	return nil
}

// ListCategories returns all categories, parents first
func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).
		Order("parent_id ASC NULLS FIRST, name ASC").
		Find(&categories).Error
	return categories, err
}

// MainCategories returns top-level categories
func (s *CatalogService) MainCategories(ctx context.Context, limit int) ([]model.Category, error) {
	query := s.db.WithContext(ctx).Where("parent_id IS NULL").Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var categories []model.Category
	err := query.Find(&categories).Error
	return categories, err
}

// GetCategoryBySlug returns a category and is used for slugged browse pages
func (s *CatalogService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).Where("slug = ?", categorySlug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory saves a new category; name must be unique under its parent
func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	category := &model.Category{Name: in.Name, ParentID: in.ParentID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categorySlug, err := assignSlug(tx, &model.Category{}, in.Name, 0)
		if err != nil {
			return err
		}
		category.Slug = categorySlug
		return tx.Create(category).Error
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category; the slug follows the name
func (s *CatalogService) UpdateCategory(ctx context.Context, categoryID uint, in CategoryInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Name != category.Name {
			categorySlug, err := assignSlug(tx, &model.Category{}, in.Name, category.ID)
			if err != nil {
				return err
			}
			category.Slug = categorySlug
		}
		category.Name = in.Name
		category.ParentID = in.ParentID
		return tx.Save(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category unless products still reference it
func (s *CatalogService) DeleteCategory(ctx context.Context, categoryID uint) error {
	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var productCount int64
	if err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return fmt.Errorf("%w: category has products", ErrConstraintViolation)
	}

	return s.db.WithContext(ctx).Delete(&category).Error
}
