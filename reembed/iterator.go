// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"

	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
)

const (
	// DefaultBatchSize is the default number of summaries fetched per page
	DefaultBatchSize = 100
)

// RecordIterator walks every stored summary in ascending ID order, one page
// at a time.
type RecordIterator struct {
	repo      storage.SummaryRepository
	batchSize int
}

// NewRecordIterator creates a new record iterator.
// batchSize: page size; values <= 0 fall back to DefaultBatchSize
func NewRecordIterator(repo storage.SummaryRepository, batchSize int) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &RecordIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn with each page of summaries until the repository is
// exhausted or fn returns an error.
// Context cancellation is checked between pages.
func (it *RecordIterator) ForEach(ctx context.Context, fn func([]*core.SummaryRecord) error) error {
	var cursor core.ID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := it.repo.ListSummaries(ctx, cursor, it.batchSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		// fn may modify the records, so take the cursor first
		cursor = page[len(page)-1].Id

		if err := fn(page); err != nil {
			return err
		}

		if len(page) < it.batchSize {
			return nil
		}
	}
}
