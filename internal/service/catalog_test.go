package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) (*CatalogService, context.Context, uint) {
	t.Helper()
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	category := createTestCategory(t, db, "Dairy")
	return catalog, context.Background(), category.ID
}

func TestCreateProductAssignsUniqueSlugs(t *testing.T) {
	catalog, ctx, categoryID := newCatalogFixture(t)

	in := ProductInput{Name: "Whole Milk", Description: "Fresh", Brand: "Acme", CategoryID: categoryID}
	first, err := catalog.CreateProduct(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "whole-milk", first.Slug)

	second, err := catalog.CreateProduct(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "whole-milk-2", second.Slug)

	third, err := catalog.CreateProduct(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "whole-milk-3", third.Slug)
}

func TestUpdateProductRenameRecomputesSlug(t *testing.T) {
	catalog, ctx, categoryID := newCatalogFixture(t)

	product, err := catalog.CreateProduct(ctx, ProductInput{
		Name: "Whole Milk", Description: "Fresh", Brand: "Acme", CategoryID: categoryID,
	})
	require.NoError(t, err)

	updated, err := catalog.UpdateProduct(ctx, product.ID, ProductInput{
		Name: "Skim Milk", Description: "Fresh", Brand: "Acme", CategoryID: categoryID,
	})
	require.NoError(t, err)
	require.Equal(t, "skim-milk", updated.Slug)

	// A non-rename update keeps the slug stable
	updated, err = catalog.UpdateProduct(ctx, product.ID, ProductInput{
		Name: "Skim Milk", Description: "Very fresh", Brand: "Acme", CategoryID: categoryID,
	})
	require.NoError(t, err)
	require.Equal(t, "skim-milk", updated.Slug)
}

func TestArchiveProductHidesFromStorefront(t *testing.T) {
	catalog, ctx, categoryID := newCatalogFixture(t)

	product, err := catalog.CreateProduct(ctx, ProductInput{
		Name: "Whole Milk", Description: "Fresh", Brand: "Acme", CategoryID: categoryID,
	})
	require.NoError(t, err)

	require.NoError(t, catalog.ArchiveProduct(ctx, product.ID))

	_, err = catalog.GetProductBySlug(ctx, product.Slug)
	require.ErrorIs(t, err, ErrNotFound)

	listed, total, err := catalog.ListProducts(ctx, ProductListFilter{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, listed)

	// Admins still see it by id, and restore brings it back
	_, err = catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)

	require.NoError(t, catalog.RestoreProduct(ctx, product.ID))
	_, err = catalog.GetProductBySlug(ctx, product.Slug)
	require.NoError(t, err)
}

func TestListProductsSearch(t *testing.T) {
	catalog, ctx, categoryID := newCatalogFixture(t)

	_, err := catalog.CreateProduct(ctx, ProductInput{
		Name: "Whole Milk", Description: "Fresh dairy", Brand: "Acme", CategoryID: categoryID,
	})
	require.NoError(t, err)
	_, err = catalog.CreateProduct(ctx, ProductInput{
		Name: "Sourdough Bread", Description: "Baked daily", Brand: "Hearth", CategoryID: categoryID,
	})
	require.NoError(t, err)

	results, total, err := catalog.ListProducts(ctx, ProductListFilter{Search: "milk"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Whole Milk", results[0].Name)

	// Brand matches too
	results, total, err = catalog.ListProducts(ctx, ProductListFilter{Search: "Hearth"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Sourdough Bread", results[0].Name)
}

func TestVariantSKUUniqueness(t *testing.T) {
	catalog, ctx, categoryID := newCatalogFixture(t)

	product, err := catalog.CreateProduct(ctx, ProductInput{
		Name: "Whole Milk", Description: "Fresh", Brand: "Acme", CategoryID: categoryID,
	})
	require.NoError(t, err)

	in := VariantInput{SKU: "MILK-1L", VariantName: "1L", Price: decimal.RequireFromString("2.50"), StockQuantity: 10}
	first, err := catalog.CreateVariant(ctx, product.ID, in)
	require.NoError(t, err)

	_, err = catalog.CreateVariant(ctx, product.ID, in)
	require.ErrorIs(t, err, ErrValidation)

	// Updating a variant to keep its own SKU is fine
	in.StockQuantity = 25
	updated, err := catalog.UpdateVariant(ctx, product.ID, first.ID, in)
	require.NoError(t, err)
	require.Equal(t, 25, updated.StockQuantity)
}

func TestVariantValidation(t *testing.T) {
	catalog, ctx, categoryID := newCatalogFixture(t)

	product, err := catalog.CreateProduct(ctx, ProductInput{
		Name: "Whole Milk", Description: "Fresh", Brand: "Acme", CategoryID: categoryID,
	})
	require.NoError(t, err)

	_, err = catalog.CreateVariant(ctx, product.ID, VariantInput{SKU: "", VariantName: "1L"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = catalog.CreateVariant(ctx, product.ID, VariantInput{
		SKU: "MILK-1L", VariantName: "1L", Price: decimal.RequireFromString("-1"),
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = catalog.CreateVariant(ctx, product.ID, VariantInput{
		SKU: "MILK-1L", VariantName: "1L", Price: decimal.RequireFromString("2.50"), StockQuantity: -1,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestFeaturedProductsFallsBackToNewest(t *testing.T) {
	catalog, ctx, categoryID := newCatalogFixture(t)

	plain, err := catalog.CreateProduct(ctx, ProductInput{
		Name: "Whole Milk", Description: "Fresh", Brand: "Acme", CategoryID: categoryID,
	})
	require.NoError(t, err)

	// Nothing flagged: the newest products stand in
	featured, err := catalog.FeaturedProducts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	require.Equal(t, plain.ID, featured[0].ID)

	flagged, err := catalog.CreateProduct(ctx, ProductInput{
		Name: "Oat Milk", Description: "Creamy", Brand: "Acme", CategoryID: categoryID, Featured: true,
	})
	require.NoError(t, err)

	featured, err = catalog.FeaturedProducts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	require.Equal(t, flagged.ID, featured[0].ID)
}

func TestCategoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	category, err := catalog.CreateCategory(ctx, CategoryInput{Name: "Fresh Produce"})
	require.NoError(t, err)
	require.Equal(t, "fresh-produce", category.Slug)

	renamed, err := catalog.UpdateCategory(ctx, category.ID, CategoryInput{Name: "Produce"})
	require.NoError(t, err)
	require.Equal(t, "produce", renamed.Slug)

	// Deleting is blocked while products reference the category
	_, err = catalog.CreateProduct(ctx, ProductInput{
		Name: "Bananas", Description: "Ripe", Brand: "Tropico", CategoryID: category.ID,
	})
	require.NoError(t, err)
	require.ErrorIs(t, catalog.DeleteCategory(ctx, category.ID), ErrConstraintViolation)

	empty, err := catalog.CreateCategory(ctx, CategoryInput{Name: "Seasonal"})
	require.NoError(t, err)
	require.NoError(t, catalog.DeleteCategory(ctx, empty.ID))
	require.ErrorIs(t, catalog.DeleteCategory(ctx, empty.ID), ErrNotFound)
}

func TestCreateProductRequiresCategory(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	_, err := catalog.CreateProduct(context.Background(), ProductInput{
		Name: "Whole Milk", Description: "Fresh", Brand: "Acme", CategoryID: 999,
	})
	require.ErrorIs(t, err, ErrNotFound)
}
