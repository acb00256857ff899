package inventory

import (
	"context"
	"sync"
)

// MemoryLedger implements Ledger with in-memory storage. Used in tests
// and for running the binary without a database.
type MemoryLedger struct {
	mu     sync.RWMutex
	stocks map[int64]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{stocks: make(map[int64]int)}
}

// SetStock sets the stock level for a product (used for initialization)
func (l *MemoryLedger) SetStock(productID int64, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stocks[productID] = quantity
}

// Stock returns the current stock level for a product.
func (l *MemoryLedger) Stock(productID int64) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	stock, ok := l.stocks[productID]
	return stock, ok
}

func (l *MemoryLedger) HasAvailable(_ context.Context, productID int64, quantity int) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stock, ok := l.stocks[productID]
	if !ok {
		return false, ErrProductNotFound
	}
	return stock >= quantity, nil
}

func (l *MemoryLedger) Reserve(_ context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stock, ok := l.stocks[productID]
	if !ok {
		return ErrProductNotFound
	}
	if stock < quantity {
		return &InsufficientStockError{ProductID: productID, Available: stock}
	}

	l.stocks[productID] = stock - quantity
	return nil
}

func (l *MemoryLedger) Release(_ context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.stocks[productID]; !ok {
		return ErrProductNotFound
	}

	l.stocks[productID] += quantity
	return nil
}
