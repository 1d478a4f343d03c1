package search

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/poiesic/libris/ai/mock"
	"github.com/poiesic/libris/storage/badger"
	"github.com/poiesic/libris/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// fakeStore returns canned documents and records the last query.
type fakeStore struct {
	docs      []schema.Document
	err       error
	query     string
	limit     int
	threshold float32
}

func (f *fakeStore) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	return nil, errors.New("read only")
}

func (f *fakeStore) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := vectorstores.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	f.query = query
	f.limit = numDocuments
	f.threshold = opts.ScoreThreshold
	return f.docs, f.err
}

func doc(source, content string, score float32) schema.Document {
	return schema.Document{PageContent: content, Metadata: map[string]any{"source": source}, Score: score}
}

type recordingMonitor struct {
	started  string
	returned int
	verbatim []string
	finished []Hit
}

func (m *recordingMonitor) Start(query string)                           { m.started = query }
func (m *recordingMonitor) AfterSimilaritySearch(docs []schema.Document) { m.returned = len(docs) }
func (m *recordingMonitor) VerbatimHit(hit Hit)                          { m.verbatim = append(m.verbatim, hit.Source) }
func (m *recordingMonitor) Finish(hits []Hit)                            { m.finished = hits }

func TestNewSearcher(t *testing.T) {
	store := &fakeStore{}

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(store)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(store, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.Equal(t, ErrVectorStoreRequired, err)
	})

	t.Run("invalid min score", func(t *testing.T) {
		_, err := NewSearcher(store, WithMinScore(1.5))
		assert.ErrorIs(t, err, ErrInvalidMinScore)
	})
}

func TestFindSimilar_MapsDocuments(t *testing.T) {
	store := &fakeStore{docs: []schema.Document{
		doc("docs/a.pdf", "A tale of sailing ships", 0.9),
		doc("docs/b.pdf", "Cooking for beginners", 0.7),
	}}
	searcher, err := NewSearcher(store, WithMinScore(0.5), WithLogger(slog.Default()))
	require.NoError(t, err)

	hits, err := searcher.FindSimilar(context.Background(), "maritime history", 5)
	require.NoError(t, err)

	assert.Equal(t, "maritime history", store.query)
	assert.Equal(t, 5, store.limit)
	assert.Equal(t, float32(0.5), store.threshold)
	require.Len(t, hits, 2)
	assert.Equal(t, Hit{Source: "docs/a.pdf", Content: "A tale of sailing ships", Score: 0.9}, hits[0])
	assert.Equal(t, "docs/b.pdf", hits[1].Source)
}

func TestFindSimilar_VerbatimBoost(t *testing.T) {
	store := &fakeStore{docs: []schema.Document{
		doc("docs/related.pdf", "A history of naval warfare", 0.85),
		doc("docs/exact.pdf", "Moby-Dick: the whale hunt of Captain Ahab", 0.70),
	}}
	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	hits, err := searcher.FindSimilarWithMonitor(context.Background(), "the whale Ahab", 5, monitor)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "docs/exact.pdf", hits[0].Source)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
	assert.Equal(t, []string{"docs/exact.pdf"}, monitor.verbatim)
	assert.Equal(t, "the whale Ahab", monitor.started)
	assert.Equal(t, 2, monitor.returned)
	assert.Equal(t, hits, monitor.finished)
}

func TestFindSimilar_BoostDisabled(t *testing.T) {
	store := &fakeStore{docs: []schema.Document{
		doc("docs/related.pdf", "A history of naval warfare", 0.85),
		doc("docs/exact.pdf", "Captain Ahab hunts the whale", 0.70),
	}}
	searcher, err := NewSearcher(store, WithVerbatimBoost(0))
	require.NoError(t, err)

	hits, err := searcher.FindSimilar(context.Background(), "whale Ahab", 5)
	require.NoError(t, err)
	assert.Equal(t, "docs/related.pdf", hits[0].Source)
}

func TestFindSimilar_InvalidMaxHits(t *testing.T) {
	searcher, err := NewSearcher(&fakeStore{})
	require.NoError(t, err)

	_, err = searcher.FindSimilar(context.Background(), "q", 0)
	assert.ErrorIs(t, err, ErrInvalidMaxHits)
}

func TestFindSimilar_StoreError(t *testing.T) {
	boom := errors.New("index unavailable")
	searcher, err := NewSearcher(&fakeStore{err: boom})
	require.NoError(t, err)

	_, err = searcher.FindSimilar(context.Background(), "q", 3)
	assert.ErrorIs(t, err, boom)
}

func TestFindSimilar_EmptyStore(t *testing.T) {
	searcher, err := NewSearcher(&fakeStore{})
	require.NoError(t, err)

	hits, err := searcher.FindSimilar(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFindSimilar_LocalStore(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()

	local, err := vectorstore.NewLocalStore(repo, &mock.MockEmbedder{Dimensions: 32})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = local.AddDocuments(ctx, []schema.Document{
		doc("docs/a.pdf", "sailing around the world", 0),
		doc("docs/b.pdf", "baking sourdough bread", 0),
	})
	require.NoError(t, err)

	searcher, err := NewSearcher(local, WithVerbatimBoost(0))
	require.NoError(t, err)

	hits, err := searcher.FindSimilar(ctx, "baking sourdough bread", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "docs/b.pdf", hits[0].Source)
	assert.Equal(t, "baking sourdough bread", hits[0].Content)
}

func TestLogMonitor(t *testing.T) {
	monitor := NewLogMonitor(nil)
	searcher, err := NewSearcher(&fakeStore{docs: []schema.Document{doc("docs/a.pdf", "whale", 0.5)}})
	require.NoError(t, err)

	hits, err := searcher.FindSimilarWithMonitor(context.Background(), "whale", 1, monitor)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}
