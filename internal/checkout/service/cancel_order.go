package service

import (
	"context"
	"fmt"

	orderdomain "github.com/fjod/go_shop/internal/order/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CancelOrder cancels the user's order and returns its stock to the
// ledger. The status update is the atomic claim: only the caller that
// wins the PENDING/CONFIRMED -> CANCELLED transition releases stock, so
// two concurrent cancels cannot restock twice.
func (s *CheckoutService) CancelOrder(ctx context.Context, userID string, orderID uuid.UUID) (*orderdomain.Order, error) {
	order, err := s.orders.GetOrderByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, orderID, orderdomain.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = orderdomain.OrderStatusCancelled

	for _, item := range order.Items {
		if err := s.ledger.Release(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.Error("failed to restore stock for cancelled order",
				zap.String("order_id", orderID.String()),
				zap.Int64("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			return nil, fmt.Errorf("failed to restore stock for product %d: %w", item.ProductID, err)
		}
	}

	s.log.Info("order cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("user_id", userID))

	s.notify("order cancelled", order, s.notifier.OrderCancelled)
	return order, nil
}
