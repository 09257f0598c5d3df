package llm

import (
	"context"

	"worker_server/internal/llmclient"
)

// Embedder wraps llmclient.Client.EmbeddingBatch (github.com/sashabaranov/go-openai's
// ada-002 embeddings endpoint) in a gobreaker-backed batchBreaker,
// implementing port.Embedder for the noise-elevation Phase 2 dedup step.
type Embedder struct {
	client  *llmclient.Client
	breaker *batchBreaker
}

func NewEmbedder(apiKey string) *Embedder {
	return &Embedder{
		client:  llmclient.NewClient(apiKey),
		breaker: newBatchBreaker("digest-embedding"),
	}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.breaker.execute(ctx, func(ctx context.Context) ([][]float32, error) {
		return e.client.EmbeddingBatch(ctx, texts)
	})
}
