package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStockReduce(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db)
	variant := createTestVariant(t, db, "MILK-1", "2.50", 10)

	require.NoError(t, stock.Reduce(db, variant.ID, 4))
	require.Equal(t, 6, variantStock(t, db, variant.ID))
}

func TestStockReduceInsufficientLeavesStockUnchanged(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db)
	variant := createTestVariant(t, db, "MILK-1", "2.50", 3)

	err := stock.Reduce(db, variant.ID, 5)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 3, variantStock(t, db, variant.ID))
}

func TestStockReduceUnknownVariant(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db)

	err := stock.Reduce(db, 999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStockReduceRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db)
	variant := createTestVariant(t, db, "MILK-1", "2.50", 3)

	require.ErrorIs(t, stock.Reduce(db, variant.ID, 0), ErrValidation)
	require.ErrorIs(t, stock.Reduce(db, variant.ID, -2), ErrValidation)
	require.Equal(t, 3, variantStock(t, db, variant.ID))
}

// Two reductions competing for the same units: the first wins, the second is
// rejected and the remaining stock never goes negative.
func TestStockReduceNeverOversells(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db)
	variant := createTestVariant(t, db, "MILK-1", "2.50", 5)

	require.NoError(t, stock.Reduce(db, variant.ID, 3))
	require.ErrorIs(t, stock.Reduce(db, variant.ID, 3), ErrInsufficientStock)
	require.Equal(t, 2, variantStock(t, db, variant.ID))
}

func TestStockRestock(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db)
	variant := createTestVariant(t, db, "MILK-1", "2.50", 1)

	require.NoError(t, stock.Restock(context.Background(), variant.ID, 9))
	require.Equal(t, 10, variantStock(t, db, variant.ID))

	require.ErrorIs(t, stock.Restock(context.Background(), 999, 1), ErrNotFound)
}

func TestStockHasStockTreatsArchivedAsUnavailable(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db)
	variant := createTestVariant(t, db, "MILK-1", "2.50", 10)

	ok, err := stock.HasStock(context.Background(), variant.ID, 10)
	require.NoError(t, err)
	require.True(t, ok)

	now := time.Now()
	require.NoError(t, db.Model(variant).Update("archived_at", &now).Error)

	_, err = stock.HasStock(context.Background(), variant.ID, 1)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, stock.Reduce(db, variant.ID, 1), ErrNotFound)
}
