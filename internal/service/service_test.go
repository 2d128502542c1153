package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront-service/internal/model"
	"storefront-service/internal/notifier"
)

// newTestDB opens a fresh in-memory database for one test and migrates the
// full schema. The database is named after the test so parallel tests never
// share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Cart{},
		&model.CartItem{},
		&model.Address{},
		&model.DeliverySlot{},
		&model.Order{},
		&model.OrderItem{},
	))

	return db
}

// recordingNotifier captures published events for assertions
type recordingNotifier struct {
	mu     sync.Mutex
	events []notifier.OrderEvent
}

func (n *recordingNotifier) PublishOrderEvent(_ context.Context, event notifier.OrderEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) Events() []notifier.OrderEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notifier.OrderEvent, len(n.events))
	copy(out, n.events)
	return out
}

func newOrderServiceForTest(t *testing.T, db *gorm.DB) (*OrderService, *recordingNotifier) {
	t.Helper()
	fake := &recordingNotifier{}
	stock := NewStockService(db)
	cart := NewCartService(db)
	return NewOrderService(db, stock, cart, fake, zap.NewNop()), fake
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Slug: strings.ToLower(strings.ReplaceAll(name, " ", "-"))}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestVariant(t *testing.T, db *gorm.DB, sku string, price string, stock int) *model.ProductVariant {
	t.Helper()
	category := createTestCategory(t, db, "Category "+sku)
	product := &model.Product{
		Name:        "Product " + sku,
		Description: "Test product",
		Brand:       "Acme",
		CategoryID:  category.ID,
		Slug:        "product-" + strings.ToLower(sku),
	}
	require.NoError(t, db.Create(product).Error)

	variant := &model.ProductVariant{
		ProductID:     product.ID,
		SKU:           sku,
		VariantName:   "1kg",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(variant).Error)
	return variant
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uint) *model.Address {
	t.Helper()
	address := &model.Address{
		UserID:  userID,
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
		Country: "USA",
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

func createTestSlot(t *testing.T, db *gorm.DB) *model.DeliverySlot {
	t.Helper()
	slot := &model.DeliverySlot{
		StartTime:   time.Now().Add(24 * time.Hour),
		EndTime:     time.Now().Add(26 * time.Hour),
		IsAvailable: true,
	}
	require.NoError(t, db.Create(slot).Error)
	return slot
}

func variantStock(t *testing.T, db *gorm.DB, variantID uint) int {
	t.Helper()
	var variant model.ProductVariant
	require.NoError(t, db.First(&variant, variantID).Error)
	return variant.StockQuantity
}
