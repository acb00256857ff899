package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_shop/internal/order/domain"
	"github.com/google/uuid"
)

// ErrOrderNotFound also covers "exists but owned by another user" on
// user-scoped lookups, so callers cannot probe for foreign orders.
var ErrOrderNotFound = errors.New("order not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type OrderRepository interface {
	// CreateOrder persists the order, assigning its id and creation
	// timestamp if unset.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*domain.Order, error)
	// ListOrdersByUserID returns the user's orders newest first.
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	// UpdateStatus applies the status change iff the domain transition
	// table allows it, as one atomic step. Returns
	// *domain.InvalidTransitionError otherwise.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	Close() error
}
