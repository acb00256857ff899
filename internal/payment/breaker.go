package payment

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// WithBreaker wraps a processor in a circuit breaker so a struggling
// gateway fails fast instead of tying up checkout requests.
func WithBreaker(next Processor) Processor {
	cb := gobreaker.NewCircuitBreaker[*ChargeResult](gobreaker.Settings{
		Name:    "payment",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &breakerProcessor{cb: cb, next: next}
}

type breakerProcessor struct {
	cb   *gobreaker.CircuitBreaker[*ChargeResult]
	next Processor
}

func (p *breakerProcessor) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return p.cb.Execute(func() (*ChargeResult, error) {
		return p.next.Charge(ctx, req)
	})
}
