package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_shop/internal/inventory"
	orderdomain "github.com/fjod/go_shop/internal/order/domain"
	"github.com/fjod/go_shop/internal/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlaceOrder converts the user's cart into a confirmed order.
//
// The whole sequence runs under the user's cart lock: snapshot the
// cart, reserve stock line by line, charge payment, persist the order,
// clear the cart. If any step fails, every reservation made so far is
// released and the cart is left untouched.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, shipping ShippingInfo, paymentMethod string) (*orderdomain.Order, error) {
	var placed *orderdomain.Order

	err := s.carts.WithUserLock(userID, func() error {
		cart, err := s.carts.GetCartLocked(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if cart.IsEmpty() {
			return ErrEmptyCart
		}

		reservations := make([]reservation, 0, len(cart.Items))
		items := make([]orderdomain.OrderItem, 0, len(cart.Items))

		for _, line := range cart.Items {
			product, err := s.catalog.GetProduct(ctx, line.ProductID)
			if err != nil {
				s.releaseAll(ctx, reservations)
				return fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
			}

			if err := s.ledger.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
				s.releaseAll(ctx, reservations)
				var insufficient *inventory.InsufficientStockError
				if errors.As(err, &insufficient) {
					return fmt.Errorf("%s: %w", product.Name, err)
				}
				return fmt.Errorf("failed to reserve product %d: %w", line.ProductID, err)
			}
			reservations = append(reservations, reservation{productID: line.ProductID, quantity: line.Quantity})

			// Unit price is frozen here; later catalog changes must not
			// affect this order.
			items = append(items, orderdomain.OrderItem{
				ProductID:   line.ProductID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
			})
		}

		// The id is assigned before the charge so the payment record can
		// reference the order it pays for.
		order := &orderdomain.Order{
			ID:              uuid.New(),
			UserID:          userID,
			Items:           items,
			Status:          orderdomain.OrderStatusPending,
			PaymentStatus:   orderdomain.PaymentStatusPending,
			ShippingAddress: shipping.FullAddress(),
			CreatedAt:       time.Now(),
		}
		order.TotalAmount = order.CalculateTotal()

		result, err := s.payments.Charge(ctx, payment.ChargeRequest{
			OrderID: order.ID,
			UserID:  userID,
			Amount:  order.TotalAmount,
			Method:  paymentMethod,
		})
		if err != nil || !result.Approved {
			s.releaseAll(ctx, reservations)
			if err != nil {
				s.log.Warn("payment charge failed", zap.String("user_id", userID), zap.Error(err))
				return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
			}
			return fmt.Errorf("%w: %s", ErrPaymentFailed, result.Reason)
		}

		order.PaymentStatus = orderdomain.PaymentStatusCompleted
		order.Status = orderdomain.OrderStatusConfirmed

		if err := s.orders.CreateOrder(ctx, order); err != nil {
			s.releaseAll(ctx, reservations)
			return fmt.Errorf("failed to persist order: %w", err)
		}

		if err := s.carts.ClearCartLocked(ctx, userID); err != nil {
			// Order and payment already stand; an uncleared cart is an
			// annoyance, not a reason to fail the purchase.
			s.log.Error("failed to clear cart after checkout",
				zap.String("user_id", userID),
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("user_id", userID),
		zap.String("total", placed.TotalAmount.StringFixed(2)))

	s.notify("order confirmed", placed, s.notifier.OrderConfirmed)
	return placed, nil
}
