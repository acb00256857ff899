package inventory

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by the ledger
var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// InsufficientStockError carries the quantity that was still available
// when a reservation was rejected.
type InsufficientStockError struct {
	ProductID int64
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: %d available", e.ProductID, e.Available)
}

// Ledger is the single source of truth for per-product stock.
//
// Reserve and Release on the same product must be linearizable: stock
// can never be observed below zero, no matter how calls interleave.
// HasAvailable is advisory only and must not be used to guard a
// subsequent write.
type Ledger interface {
	// HasAvailable reports whether current stock covers quantity.
	HasAvailable(ctx context.Context, productID int64, quantity int) (bool, error)

	// Reserve decrements stock by quantity iff current stock covers it,
	// as a single atomic step. Fails with *InsufficientStockError
	// otherwise, leaving stock unchanged.
	Reserve(ctx context.Context, productID int64, quantity int) error

	// Release increments stock by quantity. Used for cancellation and
	// for rolling back a partially reserved checkout.
	Release(ctx context.Context, productID int64, quantity int) error
}
