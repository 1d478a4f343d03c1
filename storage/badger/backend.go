package badger

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
)

const (
	defaultSequenceBandwidth = 100
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// slogAdapter routes badger's printf-style logging into slog.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) Errorf(msg string, items ...any) {
	a.logger.Error(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (a *slogAdapter) Warningf(msg string, items ...any) {
	a.logger.Warn(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

// Badger is chatty at info level; its startup and compaction notes go to debug.
func (a *slogAdapter) Infof(msg string, items ...any) {
	a.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (a *slogAdapter) Debugf(msg string, items ...any) {
	a.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

// OpenBackend opens the summary database at dir, creating the directory if
// needed. With inMemory set, dir is ignored and nothing touches the disk.
func OpenBackend(dir string, inMemory bool) (*Backend, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	if !inMemory {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(dir)
	}

	logger := slog.Default().With("component", "badger")
	opts = opts.WithLogger(&slogAdapter{logger: logger}).WithCompression(options.None)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening summary database %q: %w", dir, err)
	}
	logger.Debug("summary database open", "dir", dir, "inMemory", inMemory)

	return &Backend{
		db:     db,
		logger: logger,
	}, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn inside a transaction that is always discarded on return.
// Writers must commit before fn returns.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence leases a named ID sequence.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), defaultSequenceBandwidth)
}

// FindSimilar scores every stored summary against vector.
// Summaries without an embedding are skipped.
func (b *Backend) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", storage.ErrInvalidQuery, limit)
	}

	var results []*core.SearchResult
	mismatched := 0

	err := b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(summaryRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.SummaryRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalSummaryRecord(val)
				return err
			})
			if err != nil {
				return err
			}

			if len(record.Vector) == 0 {
				continue
			}
			// Vectors from a different embedding model are not comparable.
			if len(record.Vector) != len(vector) {
				mismatched++
				continue
			}

			// Stored vectors are unit length, so the dot product is the cosine.
			similarity := dotProduct(vector, record.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.SearchResult{
					Record: record,
					Score:  similarity,
				})
			}
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	if mismatched > 0 {
		b.logger.Warn("skipped summaries with a different vector dimension; run reembed",
			"skipped", mismatched, "query_dimension", len(vector))
	}

	// Highest score first; ties keep the older record first
	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(results) > limit {
		results = results[:limit]
	}

	b.logger.Debug("similarity scan complete", "matches", len(results), "min_similarity", minSimilarity)
	return results, nil
}

func dotProduct(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := range n {
		sum += a[i] * b[i]
	}
	return sum
}
