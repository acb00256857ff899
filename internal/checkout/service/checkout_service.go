package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	cartdomain "github.com/fjod/go_shop/internal/cart/domain"
	catalogdomain "github.com/fjod/go_shop/internal/catalog/domain"
	"github.com/fjod/go_shop/internal/inventory"
	"github.com/fjod/go_shop/internal/notification"
	orderdomain "github.com/fjod/go_shop/internal/order/domain"
	"github.com/fjod/go_shop/internal/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Carts is the slice of the cart service checkout depends on. Checkout
// runs inside WithUserLock and uses the Locked variants, which bypass
// the cart cache: the snapshot and the clear must both see the
// authoritative store, or a concurrent AddItem could vanish behind a
// stale cache entry.
type Carts interface {
	GetCartLocked(ctx context.Context, userID string) (*cartdomain.Cart, error)
	ClearCartLocked(ctx context.Context, userID string) error
	WithUserLock(userID string, fn func() error) error
}

type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *orderdomain.Order) error
	GetOrderByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*orderdomain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status orderdomain.OrderStatus) error
}

// ShippingInfo is the delivery address collected at checkout.
type ShippingInfo struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// FullAddress renders the address as a single line for the order record.
func (s ShippingInfo) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{s.Street, s.City, s.State, s.ZipCode, s.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// CheckoutService turns a cart into an order: it reserves stock,
// charges payment, persists the order and clears the cart, all while
// holding the user's cart lock. Any failure after a partial reservation
// releases what was reserved, so a failed checkout leaves stock exactly
// where it started.
type CheckoutService struct {
	carts    Carts
	catalog  Catalog
	orders   OrderStore
	ledger   inventory.Ledger
	payments payment.Processor
	notifier notification.Notifier
	log      *zap.Logger

	notifyTimeout time.Duration
}

func NewCheckoutService(
	carts Carts,
	catalog Catalog,
	orders OrderStore,
	ledger inventory.Ledger,
	payments payment.Processor,
	notifier notification.Notifier,
	log *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:         carts,
		catalog:       catalog,
		orders:        orders,
		ledger:        ledger,
		payments:      payments,
		notifier:      notifier,
		log:           log,
		notifyTimeout: 5 * time.Second,
	}
}

type reservation struct {
	productID int64
	quantity  int
}

// releaseAll rolls back reservations in reverse order. Release failures
// are logged, not returned: the caller is already on an error path and
// the remaining lines still need their stock back.
func (s *CheckoutService) releaseAll(ctx context.Context, reservations []reservation) {
	for i := len(reservations) - 1; i >= 0; i-- {
		r := reservations[i]
		if err := s.ledger.Release(ctx, r.productID, r.quantity); err != nil {
			s.log.Error("failed to release reserved stock",
				zap.Int64("product_id", r.productID),
				zap.Int("quantity", r.quantity),
				zap.Error(err))
		}
	}
}

func (s *CheckoutService) notify(eventType string, order *orderdomain.Order, send func(context.Context, *orderdomain.Order) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := send(ctx, order); err != nil {
			s.log.Warn(fmt.Sprintf("failed to send %s notification", eventType),
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
		}
	}()
}
