package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_shop/internal/order/domain"
	"github.com/segmentio/kafka-go"
)

const (
	eventOrderConfirmed = "order.confirmed"
	eventOrderCancelled = "order.cancelled"
)

type orderEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// KafkaNotifier publishes order events to a Kafka topic. Messages are
// keyed by order ID so events for one order stay on one partition.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (n *KafkaNotifier) OrderConfirmed(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, eventOrderConfirmed, order)
}

func (n *KafkaNotifier) OrderCancelled(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, eventOrderCancelled, order)
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType string, order *domain.Order) error {
	msg, err := buildMessage(eventType, order)
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

func buildMessage(eventType string, order *domain.Order) (kafka.Message, error) {
	event := orderEvent{
		EventType:   eventType,
		OrderID:     order.ID.String(),
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.StringFixed(2),
		ItemCount:   order.TotalItems(),
		OccurredAt:  time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	return kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}, nil
}
