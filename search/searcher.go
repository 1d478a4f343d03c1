package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/libris/core"
	"github.com/tmc/langchaingo/vectorstores"
)

// DefaultVerbatimBoost is added to the score of summaries that mention every query term.
const DefaultVerbatimBoost float32 = 0.3

// Hit is a ranked summary.
type Hit struct {
	Source  string  // Where the summary came from, e.g. "docs/book.pdf"
	Content string  // Summary text
	Score   float32 // Similarity plus any verbatim boost
}

// Searcher ranks stored summaries against free-text queries.
type Searcher struct {
	store         vectorstores.VectorStore
	minScore      float32
	verbatimBoost float32
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinScore drops summaries whose similarity is below score.
// Default is 0.
func WithMinScore(score float32) Option {
	return func(s *Searcher) error {
		if score < 0 || score > 1 {
			return fmt.Errorf("%w: got %v", ErrInvalidMinScore, score)
		}
		s.minScore = score
		return nil
	}
}

// WithVerbatimBoost sets the bonus for summaries containing every query term.
// Zero disables the boost.
func WithVerbatimBoost(boost float32) Option {
	return func(s *Searcher) error {
		s.verbatimBoost = boost
		return nil
	}
}

// NewSearcher creates a new searcher over store.
func NewSearcher(store vectorstores.VectorStore, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}

	s := &Searcher{
		store:         store,
		verbatimBoost: DefaultVerbatimBoost,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// FindSimilar returns up to maxHits summaries related to query, best first.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]Hit, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor is FindSimilar with callbacks at each stage.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]Hit, error) {
	if maxHits <= 0 {
		return nil, ErrInvalidMaxHits
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	docs, err := s.store.SimilaritySearch(ctx, query, maxHits, vectorstores.WithScoreThreshold(s.minScore))
	if err != nil {
		s.logger.Error("error querying for similar summaries", "err", err)
		return nil, err
	}
	monitor.AfterSimilaritySearch(docs)

	hits := make([]Hit, 0, len(docs))
	for _, doc := range docs {
		source, _ := doc.Metadata[core.SourceKey].(string)
		hit := Hit{
			Source:  source,
			Content: doc.PageContent,
			Score:   doc.Score,
		}
		if s.verbatimBoost != 0 && mentionsAllTerms(doc.PageContent, query) {
			hit.Score += s.verbatimBoost
			monitor.VerbatimHit(hit)
		}
		hits = append(hits, hit)
	}

	// Stable so equal scores keep the store's order
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(hits) > maxHits {
		hits = hits[:maxHits]
	}
	monitor.Finish(hits)

	s.logger.Debug("search complete", "hits", len(hits))
	return hits, nil
}
