package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
)

// BatchProcessor embeds batches of summaries and writes the new vectors back.
type BatchProcessor struct {
	repo     storage.SummaryRepository
	embedder ai.Embedder
	attempts int
	delay    time.Duration
}

// NewBatchProcessor makes up to attempts embedding calls per batch, backing
// off from delay between them.
func NewBatchProcessor(repo storage.SummaryRepository, embedder ai.Embedder, attempts int, delay time.Duration) *BatchProcessor {
	return &BatchProcessor{repo: repo, embedder: embedder, attempts: attempts, delay: delay}
}

// Process replaces the vector of every record with a normalized embedding
// of its Content and persists the batch.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.SummaryRecord) error {
	if len(records) == 0 {
		return nil
	}

	vectors, err := bp.embed(ctx, records)
	if err != nil {
		return err
	}
	for i, v := range vectors {
		records[i].Vector = NormalizeVector(v)
	}

	if _, err := bp.repo.UpdateSummaries(ctx, records...); err != nil {
		return fmt.Errorf("updating summaries: %w", err)
	}
	return nil
}

func (bp *BatchProcessor) embed(ctx context.Context, records []*core.SummaryRecord) ([][]float32, error) {
	texts := make([]string, 0, len(records))
	for _, r := range records {
		texts = append(texts, r.Content)
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() (err error) {
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.attempts, bp.delay)
	if err != nil {
		return nil, fmt.Errorf("embedding %d summaries: %w", len(records), err)
	}
	if len(vectors) != len(records) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCount, len(records), len(vectors))
	}
	return vectors, nil
}
