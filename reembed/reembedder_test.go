package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/libris/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(batch int) *Config {
	return &Config{
		BatchSize:      batch,
		ReportInterval: batch,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func TestReembedder_Run(t *testing.T) {
	repo := setupTestDB(t)
	seedSummaries(t, repo, 10)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 16

	var buf bytes.Buffer
	r, err := NewReembedder(repo, embedder, testConfig(3), &buf)
	require.NoError(t, err)

	n, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 4, embedder.CallCount(), "3+3+3+1")

	all, err := repo.ListSummaries(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 10)
	for _, record := range all {
		require.Len(t, record.Vector, 16, "summary %d", record.Id)
		assert.InDelta(t, 1.0, magnitude(record.Vector), 1e-5)
		assert.InDeltaSlice(t, mock.GenerateVector(record.Content, 16), record.Vector, 1e-6)
	}

	out := buf.String()
	assert.Contains(t, out, "Starting reembedding of 10 summaries (batch size: 3)")
	assert.Contains(t, out, "10/10")
	assert.Contains(t, out, "Reembedding complete. Processed 10 summaries")
}

func TestReembedder_SearchableAfterRun(t *testing.T) {
	repo := setupTestDB(t)
	added := seedSummaries(t, repo, 3)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	r, err := NewReembedder(repo, embedder, testConfig(2), nil)
	require.NoError(t, err)
	_, err = r.Run(ctx)
	require.NoError(t, err)

	query := mock.GenerateVector(added[1].Content, mock.DefaultDimensions)
	results, err := repo.FindSimilar(ctx, query, 0.99, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, added[1].Id, results[0].Record.Id)
}

func TestReembedder_EmptyDatabase(t *testing.T) {
	repo := setupTestDB(t)
	embedder := mock.NewMockEmbedder()

	var buf bytes.Buffer
	r, err := NewReembedder(repo, embedder, nil, &buf)
	require.NoError(t, err)

	n, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, embedder.CallCount())
	assert.Contains(t, buf.String(), "0 records")
}

func TestReembedder_ContextCancellation(t *testing.T) {
	repo := setupTestDB(t)
	seedSummaries(t, repo, 10)

	ctx, cancel := context.WithCancel(context.Background())
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		if embedder.CallCount() == 2 {
			cancel()
		}
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = []float32{1, 0, 0}
		}
		return out, nil
	}

	r, err := NewReembedder(repo, embedder, testConfig(3), nil)
	require.NoError(t, err)

	n, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 6, n)
}

func TestReembedder_EmbeddingError(t *testing.T) {
	repo := setupTestDB(t)
	seedSummaries(t, repo, 1)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("persistent error")
	}

	r, err := NewReembedder(repo, embedder, testConfig(1), nil)
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent error")
	assert.Equal(t, 2, embedder.CallCount())
}

func TestReembedder_ProgressTracking(t *testing.T) {
	repo := setupTestDB(t)
	seedSummaries(t, repo, 25)

	var buf bytes.Buffer
	cfg := testConfig(5)
	cfg.ReportInterval = 10
	r, err := NewReembedder(repo, mock.NewMockEmbedder(), cfg, &buf)
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Progress: 10/25")
	assert.Contains(t, out, "Progress: 20/25")
	assert.Contains(t, out, "25/25")
}

func TestNewReembedder_Validation(t *testing.T) {
	repo := setupTestDB(t)

	_, err := NewReembedder(nil, mock.NewMockEmbedder(), nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewReembedder(repo, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestNewReembedder_FillsDefaults(t *testing.T) {
	repo := setupTestDB(t)

	r, err := NewReembedder(repo, mock.NewMockEmbedder(), &Config{BatchSize: 7}, nil)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, 7, r.config.BatchSize)
	assert.Equal(t, def.ReportInterval, r.config.ReportInterval)
	assert.Equal(t, def.MaxRetries, r.config.MaxRetries)
	assert.Equal(t, def.RetryDelay, r.config.RetryDelay)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 100, cfg.ReportInterval)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
}
