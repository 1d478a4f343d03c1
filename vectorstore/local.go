package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/reembed"
	"github.com/poiesic/libris/storage"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// IDKey is the metadata key LocalStore search results carry the record ID under.
const IDKey = "id"

// LocalStore is a vectorstores.VectorStore backed by a summary repository.
// Every added document becomes a new SummaryRecord; nothing is deduplicated.
type LocalStore struct {
	repo     storage.SummaryRepository
	embedder embeddings.Embedder
	logger   *slog.Logger
}

var _ vectorstores.VectorStore = (*LocalStore)(nil)

// NewLocalStore creates a store that writes to repo and embeds with embedder.
func NewLocalStore(repo storage.SummaryRepository, embedder ai.Embedder) (*LocalStore, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &LocalStore{
		repo:     repo,
		embedder: NewEmbedderAdapter(embedder),
		logger:   slog.Default().With("component", "local-store"),
	}, nil
}

// AddDocuments embeds every document and stores it as a summary.
// Each document must carry a non-empty "source" metadata value.
// Returns the new record IDs in decimal.
func (s *LocalStore) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	opts := s.getOptions(options...)

	if opts.Deduplicater != nil {
		kept := make([]schema.Document, 0, len(docs))
		for _, doc := range docs {
			if !opts.Deduplicater(ctx, doc) {
				kept = append(kept, doc)
			}
		}
		docs = kept
	}
	if len(docs) == 0 {
		return []string{}, nil
	}

	records := make([]*core.SummaryRecord, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for i, doc := range docs {
		source, ok := sourceOf(doc.Metadata)
		if !ok {
			return nil, fmt.Errorf("%w: document %d", ErrMissingSource, i)
		}
		records = append(records, &core.SummaryRecord{Source: source, Content: doc.PageContent})
		texts = append(texts, doc.PageContent)
	}

	vectors, err := s.embedderFor(opts).EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(records) {
		return nil, ErrEmbeddingCount
	}
	for i, record := range records {
		record.Vector = reembed.NormalizeVector(vectors[i])
	}

	added, err := s.repo.AddSummaries(ctx, records...)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(added))
	for i, record := range added {
		ids[i] = strconv.FormatUint(uint64(record.Id), 10)
		s.logger.Debug("stored summary", "id", record.Id, "source", record.Source)
	}
	return ids, nil
}

// SimilaritySearch embeds query and returns up to numDocuments stored
// summaries, most similar first. Each result carries its source and ID in
// Metadata and its cosine similarity in Score.
func (s *LocalStore) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := s.getOptions(options...)

	if opts.ScoreThreshold < 0 || opts.ScoreThreshold > 1 {
		return nil, ErrInvalidScoreThreshold
	}
	if opts.Filters != nil {
		return nil, ErrFiltersUnsupported
	}

	vector, err := s.embedderFor(opts).EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.repo.FindSimilar(ctx, reembed.NormalizeVector(vector), opts.ScoreThreshold, numDocuments)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, schema.Document{
			PageContent: result.Record.Content,
			Metadata: map[string]any{
				core.SourceKey: result.Record.Source,
				IDKey:          uint64(result.Record.Id),
			},
			Score: result.Score,
		})
	}
	return docs, nil
}

func (s *LocalStore) getOptions(options ...vectorstores.Option) vectorstores.Options {
	opts := vectorstores.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

func (s *LocalStore) embedderFor(opts vectorstores.Options) embeddings.Embedder {
	if opts.Embedder != nil {
		return opts.Embedder
	}
	return s.embedder
}
