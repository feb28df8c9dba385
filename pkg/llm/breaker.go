package llm

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerBackend wraps another Backend with a circuit breaker, the way the
// teacher's resilience package wraps outbound service calls: repeated
// failures trip the breaker and fail fast rather than piling up blocked
// goroutines behind a dying dependency (spec.md §5's 10s deadline budget
// can't absorb that).
type BreakerBackend struct {
	inner   Backend
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerBackend wraps inner with a breaker that opens after 5
// consecutive failures and probes again after 30s.
func NewBreakerBackend(inner Backend) *BreakerBackend {
	settings := gobreaker.Settings{
		Name:        "llm-backend",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &BreakerBackend{inner: inner, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerBackend) AnalyzeMedicalVitals(ctx context.Context, hr, hrv, spo2 float64, history []ChatTurn) (VitalsAnalysis, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.AnalyzeMedicalVitals(ctx, hr, hrv, spo2, history)
	})
	if err != nil {
		return VitalsAnalysis{}, joinUnavailable(err)
	}
	return result.(VitalsAnalysis), nil
}

func (b *BreakerBackend) Analyze(ctx context.Context, message string, history []ChatTurn, language, temperature string) (AnalyzeResult, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.Analyze(ctx, message, history, language, temperature)
	})
	if err != nil {
		return AnalyzeResult{}, joinUnavailable(err)
	}
	return result.(AnalyzeResult), nil
}

func joinUnavailable(err error) error {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return ErrBackendUnavailable
	}
	return err
}
