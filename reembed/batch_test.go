package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/libris/ai/mock"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedEmbedder returns v for every text.
func fixedEmbedder(v ...float32) *mock.MockEmbedder {
	e := mock.NewMockEmbedder()
	e.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = append([]float32(nil), v...)
		}
		return out, nil
	}
	return e
}

func TestBatchProcessor_Process(t *testing.T) {
	repo := setupTestDB(t)
	added := seedSummaries(t, repo, 2)
	ctx := context.Background()

	processor := NewBatchProcessor(repo, fixedEmbedder(3, 4), 3, time.Millisecond)
	require.NoError(t, processor.Process(ctx, added))

	for _, r := range added {
		stored, err := repo.GetSummary(ctx, r.Id)
		require.NoError(t, err)
		require.Len(t, stored.Vector, 2)
		assert.InDelta(t, 0.6, stored.Vector[0], 1e-6)
		assert.InDelta(t, 0.8, stored.Vector[1], 1e-6)
		assert.Equal(t, r.Content, stored.Content)
		assert.Equal(t, r.Source, stored.Source)
	}
}

func TestBatchProcessor_EmbedsContent(t *testing.T) {
	repo := setupTestDB(t)
	added := seedSummaries(t, repo, 3)

	var got []string
	embedder := fixedEmbedder(1, 0)
	inner := embedder.EmbedTextsFunc
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		got = append(got, texts...)
		return inner(ctx, texts)
	}

	require.NoError(t, NewBatchProcessor(repo, embedder, 1, 0).Process(context.Background(), added))
	assert.Equal(t, []string{"summary of book 0", "summary of book 1", "summary of book 2"}, got)
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	repo := setupTestDB(t)
	embedder := fixedEmbedder(1)

	require.NoError(t, NewBatchProcessor(repo, embedder, 3, time.Millisecond).Process(context.Background(), nil))
	assert.Zero(t, embedder.CallCount())
}

func TestBatchProcessor_Retry(t *testing.T) {
	repo := setupTestDB(t)
	added := seedSummaries(t, repo, 1)

	attempts := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("temporary error")
		}
		return [][]float32{{1, 0, 0}}, nil
	}

	require.NoError(t, NewBatchProcessor(repo, embedder, 3, time.Millisecond).Process(context.Background(), added))
	assert.Equal(t, 2, attempts)

	stored, err := repo.GetSummary(context.Background(), added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, stored.Vector)
}

func TestBatchProcessor_EmbeddingError(t *testing.T) {
	repo := setupTestDB(t)
	added := seedSummaries(t, repo, 1)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding error")
	}

	err := NewBatchProcessor(repo, embedder, 2, time.Millisecond).Process(context.Background(), added)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding error")
	assert.Equal(t, 2, embedder.CallCount())
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	repo := setupTestDB(t)
	added := seedSummaries(t, repo, 2)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}

	err := NewBatchProcessor(repo, embedder, 1, 0).Process(context.Background(), added)
	assert.ErrorIs(t, err, ErrEmbeddingCount)
}

func TestBatchProcessor_ContextCancellation(t *testing.T) {
	repo := setupTestDB(t)
	added := seedSummaries(t, repo, 1)

	ctx, cancel := context.WithCancel(context.Background())
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		cancel()
		return nil, errors.New("error")
	}

	err := NewBatchProcessor(repo, embedder, 3, time.Second).Process(ctx, added)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchProcessor_MissingRecord(t *testing.T) {
	repo := setupTestDB(t)
	ghost := []*core.SummaryRecord{{Id: 999, Source: "docs/ghost.pdf", Content: "boo"}}

	err := NewBatchProcessor(repo, fixedEmbedder(1), 1, 0).Process(context.Background(), ghost)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
