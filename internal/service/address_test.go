package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
)

func addressInput(isDefault bool) AddressInput {
	return AddressInput{
		Street:    "1 Main St",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
		Country:   "USA",
		IsDefault: isDefault,
	}
}

func countDefaults(t *testing.T, s *AddressService, userID uint) int {
	t.Helper()
	addresses, err := s.List(context.Background(), userID)
	require.NoError(t, err)
	n := 0
	for _, a := range addresses {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestAddressSetDefaultClearsSiblings(t *testing.T) {
	db := newTestDB(t)
	addresses := NewAddressService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "shopper@example.com")

	first, err := addresses.Create(ctx, user.ID, addressInput(true))
	require.NoError(t, err)
	second, err := addresses.Create(ctx, user.ID, addressInput(false))
	require.NoError(t, err)

	require.Equal(t, 1, countDefaults(t, addresses, user.ID))

	_, err = addresses.SetDefault(ctx, user.ID, second.ID)
	require.NoError(t, err)

	require.Equal(t, 1, countDefaults(t, addresses, user.ID))
	reloaded, err := addresses.Get(ctx, user.ID, first.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsDefault)
}

func TestAddressCreateAsDefaultClearsSiblings(t *testing.T) {
	db := newTestDB(t)
	addresses := NewAddressService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "shopper@example.com")

	_, err := addresses.Create(ctx, user.ID, addressInput(true))
	require.NoError(t, err)
	_, err = addresses.Create(ctx, user.ID, addressInput(true))
	require.NoError(t, err)

	require.Equal(t, 1, countDefaults(t, addresses, user.ID))
}

func TestAddressScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	addresses := NewAddressService(db)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")

	created, err := addresses.Create(ctx, owner.ID, addressInput(false))
	require.NoError(t, err)

	_, err = addresses.Get(ctx, stranger.ID, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = addresses.SetDefault(ctx, stranger.ID, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, addresses.Delete(ctx, stranger.ID, created.ID), ErrNotFound)
}

func TestAddressDeleteBlockedByOrders(t *testing.T) {
	db := newTestDB(t)
	addresses := NewAddressService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "shopper@example.com")

	address, err := addresses.Create(ctx, user.ID, addressInput(false))
	require.NoError(t, err)

	slot := createTestSlot(t, db)
	order := &model.Order{
		UserID:         user.ID,
		AddressID:      address.ID,
		DeliverySlotID: slot.ID,
		Status:         model.OrderStatusPending,
		PaymentStatus:  model.PaymentStatusUnpaid,
	}
	require.NoError(t, db.Create(order).Error)

	require.ErrorIs(t, addresses.Delete(ctx, user.ID, address.ID), ErrConstraintViolation)

	// Still there
	_, err = addresses.Get(ctx, user.ID, address.ID)
	require.NoError(t, err)
}

func TestAddressValidation(t *testing.T) {
	db := newTestDB(t)
	addresses := NewAddressService(db)
	user := createTestUser(t, db, "shopper@example.com")

	in := addressInput(false)
	in.City = ""
	_, err := addresses.Create(context.Background(), user.ID, in)
	require.ErrorIs(t, err, ErrValidation)
}

func TestDefaultForFallsBackToOldest(t *testing.T) {
	db := newTestDB(t)
	addresses := NewAddressService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "shopper@example.com")

	_, err := addresses.DefaultFor(ctx, user.ID)
	require.ErrorIs(t, err, ErrNotFound)

	first, err := addresses.Create(ctx, user.ID, addressInput(false))
	require.NoError(t, err)
	_, err = addresses.Create(ctx, user.ID, addressInput(false))
	require.NoError(t, err)

	got, err := addresses.DefaultFor(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
}
