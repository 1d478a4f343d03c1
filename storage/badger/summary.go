package badger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
)

// SummaryRepository implements storage.SummaryRepository for BadgerDB.
type SummaryRepository struct {
	backend     *Backend
	idSeq       *badger.Sequence
	ownsBackend bool
}

var _ storage.SummaryRepository = (*SummaryRepository)(nil)

// NewSummaryRepository creates a SummaryRepository on a shared backend.
// Closing the repository releases the ID sequence but leaves the backend open.
func NewSummaryRepository(backend *Backend) (*SummaryRepository, error) {
	idSeq, err := backend.GetSequence(summaryIDSeq)
	if err != nil {
		return nil, err
	}

	return &SummaryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// NewRepository opens (or creates) the database at path and returns a
// repository that owns it. Close releases both.
func NewRepository(path string) (storage.SummaryRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}

	repo, err := NewSummaryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	return repo, nil
}

// Close releases the ID sequence and, for repositories created by
// NewRepository, the database itself.
func (r *SummaryRepository) Close() error {
	err := r.idSeq.Release()
	if r.ownsBackend {
		err = errors.Join(err, r.backend.Close())
	}
	return err
}

// FindSimilar delegates to the backend.
func (r *SummaryRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// AddSummaries adds one or more summaries to storage.
func (r *SummaryRepository) AddSummaries(ctx context.Context, records ...*core.SummaryRecord) ([]*core.SummaryRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := core.ValidateSummaryRecord(record); err != nil {
				return err
			}

			nextID, err := r.nextID()
			if err != nil {
				return err
			}
			record.Id = nextID

			record.InsertedAt = time.Now().UTC().Truncate(time.Microsecond)
			record.UpdatedAt = record.InsertedAt

			if err := tx.Set(makeSummaryKey(record.Id), storage.MarshalSummaryRecord(record)); err != nil {
				return err
			}
			if err := tx.Set(makeSourceKey(record.Source, record.Id), storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// UpdateSummaries updates existing summaries.
func (r *SummaryRepository) UpdateSummaries(ctx context.Context, records ...*core.SummaryRecord) ([]*core.SummaryRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := core.ValidateSummaryRecord(record); err != nil {
				return err
			}

			key := makeSummaryKey(record.Id)
			old, err := readSummary(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return fmt.Errorf("%w: summary %d", storage.ErrNotFound, record.Id)
			}

			record.InsertedAt = old.InsertedAt
			record.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

			if err := tx.Set(key, storage.MarshalSummaryRecord(record)); err != nil {
				return err
			}

			// Move the source index entry if the source changed
			if old.Source != record.Source {
				if err := tx.Delete(makeSourceKey(old.Source, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeSourceKey(record.Source, record.Id), storage.MarshalID(record.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// DeleteSummaries removes summaries by their IDs.
func (r *SummaryRepository) DeleteSummaries(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeSummaryKey(id)
			record, err := readSummary(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("%w: summary %d", storage.ErrNotFound, id)
			}

			if err := tx.Delete(makeSourceKey(record.Source, record.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetSummary retrieves a single summary by ID.
func (r *SummaryRepository) GetSummary(ctx context.Context, id core.ID) (*core.SummaryRecord, error) {
	var result *core.SummaryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSummary(tx, makeSummaryKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetSummaries retrieves multiple summaries by their IDs.
func (r *SummaryRepository) GetSummaries(ctx context.Context, ids ...core.ID) ([]*core.SummaryRecord, error) {
	var result []*core.SummaryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := readSummary(tx, makeSummaryKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetSummariesBySource returns every summary stored for source, oldest first.
func (r *SummaryRepository) GetSummariesBySource(ctx context.Context, source string) ([]*core.SummaryRecord, error) {
	var results []*core.SummaryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialSourceKey(source)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := readSummary(tx, makeSummaryKey(recordID))
			if err != nil {
				return err
			}
			// Hash prefixes can collide; the stored source is authoritative
			if record != nil && record.Source == source {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// ListSummaries returns up to limit summaries with IDs greater than afterID.
func (r *SummaryRepository) ListSummaries(ctx context.Context, afterID core.ID, limit int) ([]*core.SummaryRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", storage.ErrInvalidQuery, limit)
	}
	if uint64(afterID) == math.MaxUint64 {
		return nil, nil
	}

	var results []*core.SummaryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(summaryRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makeSummaryKey(afterID + 1)); iter.Valid() && len(results) < limit; iter.Next() {
			var record *core.SummaryRecord
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalSummaryRecord(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)

	return results, err
}

// CountSummaries returns the number of stored summaries.
func (r *SummaryRepository) CountSummaries(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(summaryRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// nextID draws the next non-zero ID from the sequence.
func (r *SummaryRepository) nextID() (core.ID, error) {
	nextID, err := r.idSeq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if nextID == 0 {
		nextID, err = r.idSeq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(nextID), nil
}

// readSummary reads a summary from the transaction.
// Returns nil, nil when the key does not exist.
func readSummary(tx *badger.Txn, key []byte) (*core.SummaryRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.SummaryRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalSummaryRecord(val)
		return unmarshalErr
	})
	return record, err
}
