package notification

import (
	"context"

	"github.com/fjod/go_shop/internal/order/domain"
	"go.uber.org/zap"
)

// Notifier delivers order lifecycle events to the customer-facing
// notification pipeline. Delivery is best effort: checkout never fails
// because a notification could not be sent.
type Notifier interface {
	OrderConfirmed(ctx context.Context, order *domain.Order) error
	OrderCancelled(ctx context.Context, order *domain.Order) error
}

// LogNotifier writes events to the application log. Used when no Kafka
// brokers are configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) OrderConfirmed(_ context.Context, order *domain.Order) error {
	n.log.Info("order confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", order.UserID),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	return nil
}

func (n *LogNotifier) OrderCancelled(_ context.Context, order *domain.Order) error {
	n.log.Info("order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", order.UserID))
	return nil
}
