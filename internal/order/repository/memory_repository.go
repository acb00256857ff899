package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fjod/go_shop/internal/order/domain"
	"github.com/google/uuid"
)

// MemoryRepository implements OrderRepository with in-memory storage.
// Used in tests and for running the binary without Postgres.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *MemoryRepository) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (r *MemoryRepository) GetOrderByIDForUser(_ context.Context, id uuid.UUID, userID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (r *MemoryRepository) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, copyOrder(order))
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (r *MemoryRepository) ListOrdersByStatus(_ context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*domain.Order
	for _, order := range r.orders {
		if order.Status == status {
			orders = append(orders, copyOrder(order))
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(status) {
		return &domain.InvalidTransitionError{From: order.Status, To: status}
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}

func copyOrder(order *domain.Order) *domain.Order {
	out := *order
	out.Items = make([]domain.OrderItem, len(order.Items))
	copy(out.Items, order.Items)
	return &out
}

func sortNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
