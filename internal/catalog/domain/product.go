package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
	CreatedAt   time.Time
}

// HasAvailableStock is an advisory read used for early user feedback.
// The inventory ledger is the only place allowed to rely on stock for
// correctness.
func (p *Product) HasAvailableStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}
