package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	orders, _ := newOrderServiceForTest(t, db)
	dashboard := NewDashboardService(db)
	ctx := context.Background()

	fx := setupCheckout(t, orders)
	milk := createTestVariant(t, db, "MILK-1", "2.50", 10)
	eggs := createTestVariant(t, db, "EGGS-12", "3.20", 10)
	require.NoError(t, orders.cart.AddItem(ctx, fx.cart.ID, milk.ID, 4))
	require.NoError(t, orders.cart.AddItem(ctx, fx.cart.ID, eggs.ID, 1))

	order, err := orders.CreateFromCart(ctx, fx.user.ID, fx.address.ID, fx.slot.ID)
	require.NoError(t, err)
	_, err = orders.FirePaymentEvent(ctx, order.ID, EventPay)
	require.NoError(t, err)

	// A second, unpaid order must not count toward sales
	require.NoError(t, orders.cart.AddItem(ctx, fx.cart.ID, milk.ID, 1))
	_, err = orders.CreateFromCart(ctx, fx.user.ID, fx.address.ID, fx.slot.ID)
	require.NoError(t, err)

	stats, err := dashboard.Stats(ctx)
	require.NoError(t, err)

	require.True(t, stats.TotalSales.Equal(decimal.RequireFromString("13.20")), "got %s", stats.TotalSales)
	require.EqualValues(t, 2, stats.NewOrdersCount)
	require.EqualValues(t, 2, stats.ProductsCount)
	require.EqualValues(t, 1, stats.NewCustomersCount)
	require.Len(t, stats.RecentOrders, 2)

	require.NotEmpty(t, stats.TopProducts)
	top := stats.TopProducts[0]
	require.Equal(t, "Product MILK-1", top.Name)
	require.Equal(t, 5, top.TotalSold)
	require.True(t, top.Revenue.Equal(decimal.RequireFromString("12.50")), "got %s", top.Revenue)
}

func TestDashboardStatsEmptyStore(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboardService(db)

	stats, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.True(t, stats.TotalSales.IsZero())
	require.Zero(t, stats.NewOrdersCount)
	require.Empty(t, stats.TopProducts)
	require.Empty(t, stats.RecentOrders)
}
