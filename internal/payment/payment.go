package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ChargeRequest struct {
	OrderID uuid.UUID
	UserID  string
	Amount  decimal.Decimal
	Method  string
}

type ChargeResult struct {
	PaymentID string
	Approved  bool
	Reason    string
}

// Processor is the payment gateway boundary. Checkout only sees this
// interface, so the simulated processor can be swapped for a real
// gateway without touching the orchestration.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Simulated approves every charge.
type Simulated struct{}

func (Simulated) Charge(_ context.Context, _ ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{
		PaymentID: uuid.New().String(),
		Approved:  true,
	}, nil
}
