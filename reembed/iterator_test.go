package reembed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
	"github.com/poiesic/libris/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) storage.SummaryRepository {
	t.Helper()
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

// seedSummaries stores n summaries without vectors.
func seedSummaries(t *testing.T, repo storage.SummaryRepository, n int) []*core.SummaryRecord {
	t.Helper()
	records := make([]*core.SummaryRecord, n)
	for i := range records {
		records[i] = &core.SummaryRecord{
			Source:  fmt.Sprintf("docs/book-%02d.pdf", i),
			Content: fmt.Sprintf("summary of book %d", i),
		}
	}
	added, err := repo.AddSummaries(context.Background(), records...)
	require.NoError(t, err)
	require.Len(t, added, n)
	return added
}

func TestRecordIterator_VisitsEveryRecordInOrder(t *testing.T) {
	repo := setupTestDB(t)
	added := seedSummaries(t, repo, 5)

	var sizes []int
	var ids []core.ID
	err := NewRecordIterator(repo, 2).ForEach(context.Background(), func(batch []*core.SummaryRecord) error {
		sizes = append(sizes, len(batch))
		for _, r := range batch {
			ids = append(ids, r.Id)
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, sizes)
	want := make([]core.ID, len(added))
	for i, r := range added {
		want[i] = r.Id
	}
	assert.Equal(t, want, ids)
}

func TestRecordIterator_ExactMultipleOfBatchSize(t *testing.T) {
	repo := setupTestDB(t)
	seedSummaries(t, repo, 4)

	calls := 0
	err := NewRecordIterator(repo, 2).ForEach(context.Background(), func(batch []*core.SummaryRecord) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRecordIterator_Empty(t *testing.T) {
	repo := setupTestDB(t)

	called := false
	err := NewRecordIterator(repo, 10).ForEach(context.Background(), func([]*core.SummaryRecord) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestRecordIterator_DefaultBatchSize(t *testing.T) {
	repo := setupTestDB(t)
	assert.Equal(t, DefaultBatchSize, NewRecordIterator(repo, 0).batchSize)
	assert.Equal(t, DefaultBatchSize, NewRecordIterator(repo, -3).batchSize)
}

func TestRecordIterator_StopsOnError(t *testing.T) {
	repo := setupTestDB(t)
	seedSummaries(t, repo, 6)

	boom := errors.New("boom")
	calls := 0
	err := NewRecordIterator(repo, 2).ForEach(context.Background(), func([]*core.SummaryRecord) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRecordIterator_ContextCanceled(t *testing.T) {
	repo := setupTestDB(t)
	seedSummaries(t, repo, 6)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := NewRecordIterator(repo, 2).ForEach(ctx, func([]*core.SummaryRecord) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
