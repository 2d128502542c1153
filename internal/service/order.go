package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-service/internal/model"
	"storefront-service/internal/notifier"
)

// Fulfillment events
const (
	EventProcess = "process"
	EventShip    = "ship"
	EventDeliver = "deliver"
	EventCancel  = "cancel"
)

// Payment events
const (
	EventPay    = "pay"
	EventRefund = "refund"
)

type transition struct {
	from []string
	to   string
}

// Static transition tables for the two independent state machines. Anything
// not listed here is an illegal transition.
var fulfillmentTransitions = map[string]transition{
	EventProcess: {from: []string{model.OrderStatusPending}, to: model.OrderStatusProcessing},
	EventShip:    {from: []string{model.OrderStatusProcessing}, to: model.OrderStatusShipped},
	EventDeliver: {from: []string{model.OrderStatusShipped}, to: model.OrderStatusDelivered},
	EventCancel:  {from: []string{model.OrderStatusPending, model.OrderStatusProcessing}, to: model.OrderStatusCancelled},
}

var paymentTransitions = map[string]transition{
	EventPay:    {from: []string{model.PaymentStatusUnpaid}, to: model.PaymentStatusPaid},
	EventRefund: {from: []string{model.PaymentStatusPaid}, to: model.PaymentStatusRefunded},
}

// OrderListFilter narrows admin order listings
type OrderListFilter struct {
	Status        string
	PaymentStatus string
	Search        string
	Page          int
	PageSize      int
}

// OrderService drives checkout and the order lifecycle
type OrderService struct {
	db       *gorm.DB
	stock    *StockService
	cart     *CartService
	notifier notifier.Notifier
	log      *zap.Logger
}

func NewOrderService(db *gorm.DB, stock *StockService, cart *CartService, n notifier.Notifier, log *zap.Logger) *OrderService {
	return &OrderService{db: db, stock: stock, cart: cart, notifier: n, log: log}
}

// CreateFromCart converts the user's cart into an order inside one atomic
// transaction: the order row, its frozen-price lines, the per-variant stock
// decrements, and the cart clear all commit together or not at all. A stock
// shortfall on any line aborts the whole checkout with ErrInsufficientStock
// and leaves every row untouched.
func (s *OrderService) CreateFromCart(ctx context.Context, userID, addressID, deliverySlotID uint) (*model.Order, error) {
	cart, err := s.cart.FindOrCreateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var items []model.CartItem
	err = s.db.WithContext(ctx).
		Preload("ProductVariant").
		Where("cart_id = ?", cart.ID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	var address model.Address
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: address", ErrNotFound)
		}
		return nil, err
	}

	var slot model.DeliverySlot
	err = s.db.WithContext(ctx).First(&slot, deliverySlotID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: delivery slot", ErrNotFound)
		}
		return nil, err
	}
	if !slot.IsAvailable {
		return nil, fmt.Errorf("%w: delivery slot is not available", ErrValidation)
	}

	// Total is computed once, here; it is never recomputed from the lines.
	total := decimal.Zero
	for _, item := range items {
		if item.ProductVariant == nil {
			return nil, fmt.Errorf("%w: product variant", ErrNotFound)
		}
		total = total.Add(item.ProductVariant.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &model.Order{
		UserID:         userID,
		AddressID:      address.ID,
		DeliverySlotID: slot.ID,
		Status:         model.OrderStatusPending,
		PaymentStatus:  model.PaymentStatusUnpaid,
		TotalPrice:     total,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, item := range items {
			orderItem := model.OrderItem{
				OrderID:          order.ID,
				ProductVariantID: item.ProductVariantID,
				Quantity:         item.Quantity,
				PriceAtPurchase:  item.ProductVariant.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			if err := s.stock.Reduce(tx, item.ProductVariantID, item.Quantity); err != nil {
				return err
			}
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order created from cart",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.String("total_price", order.TotalPrice.String()))

	s.publishAsync(notifier.NewOrderEvent(order.ID, order.UserID, notifier.EventOrderCreated, order.TotalPrice))

	return order, nil
}

// FireFulfillmentEvent applies a fulfillment event (process, ship, deliver,
// cancel) to the order. The status column is updated with a conditional
// write so a stale caller loses cleanly with ErrInvalidTransition instead of
// clobbering a concurrent transition. Entering shipped or delivered
// publishes a notification; a publish failure never rolls the status back.
func (s *OrderService) FireFulfillmentEvent(ctx context.Context, orderID uint, event string) (*model.Order, error) {
	t, ok := fulfillmentTransitions[event]
	if !ok {
		return nil, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, event)
	}

	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status IN ?", orderID, t.from).
		Update("status", t.to)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Order{}).
			Where("id = ?", orderID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, event)
	}

	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, err
	}

	s.log.Info("Order fulfillment status changed",
		zap.Uint("order_id", order.ID),
		zap.String("event", event),
		zap.String("status", order.Status))

	switch order.Status {
	case model.OrderStatusShipped:
		s.publishAsync(notifier.NewOrderEvent(order.ID, order.UserID, notifier.EventOrderShipped, order.TotalPrice))
	case model.OrderStatusDelivered:
		s.publishAsync(notifier.NewOrderEvent(order.ID, order.UserID, notifier.EventOrderDelivered, order.TotalPrice))
	}

	return &order, nil
}

// FirePaymentEvent applies a payment event (pay, refund) to the order
func (s *OrderService) FirePaymentEvent(ctx context.Context, orderID uint, event string) (*model.Order, error) {
	t, ok := paymentTransitions[event]
	if !ok {
		return nil, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, event)
	}

	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status IN ?", orderID, t.from).
		Update("payment_status", t.to)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Order{}).
			Where("id = ?", orderID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, event)
	}

	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, err
	}

	s.log.Info("Order payment status changed",
		zap.Uint("order_id", order.ID),
		zap.String("event", event),
		zap.String("payment_status", order.PaymentStatus))

	return &order, nil
}

// GetForUser loads an order with its lines, scoped to the owning user
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Items.ProductVariant.Product").
		Preload("Address").
		Preload("DeliverySlot").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Get loads any order with its lines (admin)
func (s *OrderService) Get(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Items.ProductVariant.Product").
		Preload("User").
		Preload("Address").
		Preload("DeliverySlot").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListForUser returns the user's orders, most recent first
func (s *OrderService) ListForUser(ctx context.Context, userID uint, page, pageSize int) ([]model.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int64
	query := s.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

// List returns orders for the admin back office with optional filters
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]model.Order, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" {
		query = query.Where("orders.status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("orders.payment_status = ?", filter.PaymentStatus)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Joins("JOIN users ON users.id = orders.user_id").
			Where("users.name LIKE ? OR CAST(orders.id AS TEXT) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := query.Preload("User").
		Order("orders.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

// publishAsync hands the event to the notifier without blocking the caller.
// Failures are logged only; notification is best-effort by contract.
func (s *OrderService) publishAsync(event notifier.OrderEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.PublishOrderEvent(ctx, event); err != nil {
			s.log.Error("Failed to publish order event",
				zap.Uint("order_id", event.OrderID),
				zap.String("event", event.Event),
				zap.Error(err))
		}
	}()
}
