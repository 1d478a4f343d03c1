package storage

import (
	"context"

	"github.com/poiesic/libris/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds summaries similar to the given vector.
	// Returns records with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// SummaryRepository provides operations for managing document summaries.
type SummaryRepository interface {
	Repository

	// AddSummaries adds one or more summaries to storage.
	// Every record receives a new ID from the sequence, even when a summary
	// for the same source already exists.
	// Sets InsertedAt and UpdatedAt.
	// Returns the records with generated IDs and timestamps populated.
	AddSummaries(ctx context.Context, records ...*core.SummaryRecord) ([]*core.SummaryRecord, error)

	// UpdateSummaries updates existing summaries.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateSummaries(ctx context.Context, records ...*core.SummaryRecord) ([]*core.SummaryRecord, error)

	// DeleteSummaries removes summaries and their source index entries.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteSummaries(ctx context.Context, ids ...core.ID) error

	// GetSummary retrieves a single summary by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetSummary(ctx context.Context, id core.ID) (*core.SummaryRecord, error)

	// GetSummaries retrieves multiple summaries by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetSummaries(ctx context.Context, ids ...core.ID) ([]*core.SummaryRecord, error)

	// GetSummariesBySource returns every summary stored for source, oldest first.
	GetSummariesBySource(ctx context.Context, source string) ([]*core.SummaryRecord, error)

	// ListSummaries returns up to limit summaries with IDs greater than afterID,
	// in ascending ID order. Pass 0 to start from the beginning.
	ListSummaries(ctx context.Context, afterID core.ID, limit int) ([]*core.SummaryRecord, error)

	// CountSummaries returns the number of stored summaries.
	CountSummaries(ctx context.Context) (int, error)
}
