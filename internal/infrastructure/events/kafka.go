// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/eventhub/storefront/internal/core/domain"
)

// Event types.
const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusUpdated = "order.status_updated"
)

const writeTimeout = 5 * time.Second

// OrderEvent is the message value. Key is the owner's identity id so every
// event of one user lands on the same partition.
type OrderEvent struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	Status     domain.OrderStatus `json:"status"`
	TotalCost  int64              `json:"total_cost,omitempty"`
	ItemCount  int                `json:"item_count,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher implements ports.OrderEventPublisher.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o domain.Order) error {
	return p.publish(ctx, OrderEvent{
		Type:       TypeOrderPlaced,
		OrderID:    o.ID,
		UserID:     o.IdentityID,
		Status:     o.Status,
		TotalCost:  o.TotalCost,
		ItemCount:  len(o.Items),
		OccurredAt: p.now(),
	})
}

func (p *KafkaPublisher) OrderStatusUpdated(ctx context.Context, identityID, orderID string, status domain.OrderStatus) error {
	return p.publish(ctx, OrderEvent{
		Type:       TypeOrderStatusUpdated,
		OrderID:    orderID,
		UserID:     identityID,
		Status:     status,
		OccurredAt: p.now(),
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, ev OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: marshal %s: %w", ev.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.UserID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka: publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) OrderPlaced(context.Context, domain.Order) error { return nil }

func (NopPublisher) OrderStatusUpdated(context.Context, string, string, domain.OrderStatus) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
