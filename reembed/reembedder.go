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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of summaries embedded per request
	BatchSize int

	// ReportInterval is how often to report progress (number of summaries)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding request
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// withDefaults replaces non-positive fields with their defaults.
func (c Config) withDefaults() *Config {
	d := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.ReportInterval <= 0 {
		c.ReportInterval = d.ReportInterval
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = d.RetryDelay
	}
	return &c
}

// Reembedder regenerates the vectors of every summary in a repository.
type Reembedder struct {
	repo      storage.SummaryRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *RecordIterator
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.SummaryRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	} else {
		config = config.withDefaults()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewRecordIterator(repo, config.BatchSize),
		logger:    slog.Default().With("component", "reembedder"),
	}, nil
}

// Run reembeds every stored summary and returns the number processed.
func (r *Reembedder) Run(ctx context.Context) (int, error) {
	total, err := r.repo.CountSummaries(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting summaries: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No summaries found in database (0 records)\n")
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d summaries (batch size: %d)\n",
		total, r.config.BatchSize)
	r.logger.Info("reembedding started", "total", total, "batchSize", r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(records []*core.SummaryRecord) error {
		if err := r.processor.Process(ctx, records); err != nil {
			return fmt.Errorf("batch after %d summaries: %w", processed, err)
		}
		processed += len(records)
		tracker.Update(processed)
		r.logger.Debug("batch reembedded", "size", len(records), "processed", processed)
		return nil
	})
	if err != nil {
		return processed, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d summaries in %v (%.1f summaries/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())
	r.logger.Info("reembedding finished", "processed", processed, "elapsed", elapsed)

	return processed, nil
}
