package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fulfillment statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Order is an immutable snapshot of a completed checkout. Fulfillment and
// payment status are tracked independently.
type Order struct {
	ID             uint            `json:"id" gorm:"primarykey"`
	UserID         uint            `json:"user_id" gorm:"not null;index"`
	AddressID      uint            `json:"address_id" gorm:"not null"`
	DeliverySlotID uint            `json:"delivery_slot_id" gorm:"not null"`
	Status         string          `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	PaymentStatus  string          `json:"payment_status" gorm:"type:varchar(20);not null;default:unpaid;index"`
	TotalPrice     decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Items        []OrderItem   `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User         *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Address      *Address      `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	DeliverySlot *DeliverySlot `json:"delivery_slot,omitempty" gorm:"foreignKey:DeliverySlotID"`
}

// OrderItem freezes the unit price at purchase time; later variant price
// edits never touch it.
type OrderItem struct {
	ID               uint            `json:"id" gorm:"primarykey"`
	OrderID          uint            `json:"order_id" gorm:"not null;index"`
	ProductVariantID uint            `json:"product_variant_id" gorm:"not null;index"`
	Quantity         int             `json:"quantity" gorm:"not null"`
	PriceAtPurchase  decimal.Decimal `json:"price_at_purchase" gorm:"type:decimal(10,2);not null"`
	CreatedAt        time.Time       `json:"created_at"`

	ProductVariant *ProductVariant `json:"product_variant,omitempty" gorm:"foreignKey:ProductVariantID"`
}

// LineTotal is quantity times the frozen unit price
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
