package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Order event types
const (
	EventOrderCreated   = "created"
	EventOrderShipped   = "shipped"
	EventOrderDelivered = "delivered"
)

// OrderEvent is the payload handed to the notification pipeline. Delivery is
// at-least-once with no ordering guarantee relative to later status changes.
type OrderEvent struct {
	EventID    string          `json:"event_id"`
	OrderID    uint            `json:"order_id"`
	UserID     uint            `json:"user_id"`
	Event      string          `json:"event"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewOrderEvent builds an event with a fresh event id and timestamp
func NewOrderEvent(orderID, userID uint, event string, total decimal.Decimal) OrderEvent {
	return OrderEvent{
		EventID:    uuid.New().String(),
		OrderID:    orderID,
		UserID:     userID,
		Event:      event,
		TotalPrice: total,
		OccurredAt: time.Now(),
	}
}

// Notifier accepts order events for asynchronous delivery
type Notifier interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

// KafkaNotifier publishes order events to a Kafka topic, keyed by order id
// so events for one order land on one partition.
type KafkaNotifier struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaNotifier(brokers []string, topic string, log *zap.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaNotifier{writer: writer, log: log}
}

func (n *KafkaNotifier) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%d", event.OrderID)),
		Value: data,
	})
	if err != nil {
		return err
	}

	n.log.Info("Order event published",
		zap.String("event_id", event.EventID),
		zap.Uint("order_id", event.OrderID),
		zap.String("event", event.Event))
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// NoopNotifier logs events instead of publishing them; used when no brokers
// are configured (local development, tests).
type NoopNotifier struct {
	log *zap.Logger
}

func NewNoopNotifier(log *zap.Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

func (n *NoopNotifier) PublishOrderEvent(_ context.Context, event OrderEvent) error {
	n.log.Info("Order event (notifications disabled)",
		zap.Uint("order_id", event.OrderID),
		zap.String("event", event.Event))
	return nil
}
