// Package llm adapts an OpenAI chat-completion client into the digest core's
// port.Generator contract, wrapped in pkg/resilience's circuit breaker, the
// same breaker type the weather and geolocation collaborators use (the
// embedder in this package uses a gobreaker-backed breaker instead).
package llm

import (
	"context"
	"time"

	"worker_server/internal/digest/port"
	"worker_server/internal/llmclient"
	"worker_server/pkg/logger"
	"worker_server/pkg/resilience"
)

// Generator wraps llmclient.Client with a circuit breaker and a per-call
// timeout (120s unless the config sets one). A failed call is retried once
// unless the breaker is open, whatever the error; there is no second retry
// and no separate handling of transient and terminal errors.
type Generator struct {
	client  *llmclient.Client
	breaker *resilience.CircuitBreaker
}

func New(apiKey string, model string) *Generator {
	cfg := llmclient.ClientConfig{APIKey: apiKey, Model: model}
	breakerCfg := resilience.DefaultCircuitBreakerConfig("digest-llm")
	breakerCfg.Timeout = 60 * time.Second
	return &Generator{
		client:  llmclient.NewClientWithConfig(cfg),
		breaker: resilience.NewCircuitBreaker(breakerCfg),
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string, cfg port.GenerateConfig) (string, error) {
	timeout := 120 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	var out string
	attempt := func() error {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var err error
		if cfg.ResponseJSON {
			out, err = g.client.CompleteJSON(callCtx, prompt)
		} else {
			out, err = g.client.Complete(callCtx, prompt)
		}
		return err
	}

	err := g.breaker.Execute(attempt)
	if err != nil && err != resilience.ErrCircuitOpen {
		logger.Warn("digest llm call failed, retrying once: %v", err)
		err = g.breaker.Execute(attempt)
	}
	if err != nil {
		return "", err
	}
	return out, nil
}
