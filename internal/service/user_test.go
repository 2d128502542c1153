package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	ctx := context.Background()

	user, err := users.Register(ctx, "Shopper@Example.com", "s3cretpass", "Pat")
	require.NoError(t, err)
	require.Equal(t, "shopper@example.com", user.Email)
	require.Equal(t, model.RoleCustomer, user.Role)
	require.NotEqual(t, "s3cretpass", user.PasswordHash)

	got, err := users.Authenticate(ctx, "shopper@example.com", "s3cretpass")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = users.Authenticate(ctx, "shopper@example.com", "wrongpass")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = users.Authenticate(ctx, "nobody@example.com", "s3cretpass")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	ctx := context.Background()

	_, err := users.Register(ctx, "not-an-email", "s3cretpass", "Pat")
	require.ErrorIs(t, err, ErrValidation)

	_, err = users.Register(ctx, "shopper@example.com", "short", "Pat")
	require.ErrorIs(t, err, ErrValidation)

	_, err = users.Register(ctx, "shopper@example.com", "s3cretpass", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = users.Register(ctx, "shopper@example.com", "s3cretpass", "Pat")
	require.NoError(t, err)

	// Same address in a different case is still a duplicate
	_, err = users.Register(ctx, "SHOPPER@example.com", "s3cretpass", "Pat")
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	ctx := context.Background()

	user, err := users.Register(ctx, "shopper@example.com", "s3cretpass", "Pat")
	require.NoError(t, err)

	updated, err := users.UpdateProfile(ctx, user.ID, "Pat Lee", "555-0101")
	require.NoError(t, err)
	require.Equal(t, "Pat Lee", updated.Name)
	require.Equal(t, "555-0101", updated.Phone)

	_, err = users.UpdateProfile(ctx, user.ID, "", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestSetRole(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	ctx := context.Background()

	user, err := users.Register(ctx, "shopper@example.com", "s3cretpass", "Pat")
	require.NoError(t, err)
	require.False(t, user.IsAdmin())

	promoted, err := users.SetRole(ctx, user.ID, model.RoleAdmin)
	require.NoError(t, err)
	require.True(t, promoted.IsAdmin())

	_, err = users.SetRole(ctx, user.ID, "superuser")
	require.ErrorIs(t, err, ErrValidation)

	_, err = users.SetRole(ctx, 999, model.RoleAdmin)
	require.ErrorIs(t, err, ErrNotFound)
}
