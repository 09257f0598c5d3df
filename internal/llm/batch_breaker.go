package llm

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"worker_server/pkg/logger"
)

// batchBreaker wraps the embedding-batch call in a github.com/sony/gobreaker
// circuit breaker rather than pkg/resilience.CircuitBreaker (the breaker
// Generator uses): the embedding path is a distinct outbound dependency
// (OpenAI's embeddings endpoint, called in bulk from noise-elevation
// deduplication) and gobreaker fits a call-a-third-party-batch-endpoint
// shape well, so both breaker styles stay in use rather than collapsing
// onto one.
type batchBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func newBatchBreaker(name string) *batchBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm embedding breaker %s: %s -> %s", name, from, to)
		},
	}
	return &batchBreaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *batchBreaker) execute(ctx context.Context, fn func(ctx context.Context) ([][]float32, error)) ([][]float32, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([][]float32), nil
}
