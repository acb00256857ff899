package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated_AlwaysApproves(t *testing.T) {
	var p Simulated

	result, err := p.Charge(context.Background(), ChargeRequest{
		UserID: "u1",
		Amount: decimal.RequireFromString("30.00"),
	})

	require.NoError(t, err)
	assert.True(t, result.Approved)
	assert.NotEmpty(t, result.PaymentID)
}

type failingProcessor struct{}

func (failingProcessor) Charge(context.Context, ChargeRequest) (*ChargeResult, error) {
	return nil, errors.New("gateway unreachable")
}

func TestWithBreaker_PassesThroughSuccess(t *testing.T) {
	p := WithBreaker(Simulated{})

	result, err := p.Charge(context.Background(), ChargeRequest{UserID: "u1"})

	require.NoError(t, err)
	assert.True(t, result.Approved)
}

func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	p := WithBreaker(failingProcessor{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := p.Charge(ctx, ChargeRequest{UserID: "u1"})
		require.Error(t, err)
	}

	_, err := p.Charge(ctx, ChargeRequest{UserID: "u1"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
