package search

import (
	"log/slog"

	"github.com/tmc/langchaingo/schema"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterSimilaritySearch(docs []schema.Document)
	VerbatimHit(hit Hit)
	Finish(hits []Hit)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) AfterSimilaritySearch(_ []schema.Document) {}
func (n *noopMonitor) VerbatimHit(_ Hit)                        {}
func (n *noopMonitor) Finish(_ []Hit)                           {}

// LogMonitor reports every search stage to a logger at debug level.
type LogMonitor struct {
	logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

// NewLogMonitor creates a LogMonitor. A nil logger uses slog.Default().
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger.With("component", "search-monitor")}
}

func (m *LogMonitor) Start(query string) {
	m.logger.Debug("search started", "query", query)
}

func (m *LogMonitor) AfterSimilaritySearch(docs []schema.Document) {
	m.logger.Debug("similarity search returned", "count", len(docs))
}

func (m *LogMonitor) VerbatimHit(hit Hit) {
	m.logger.Debug("verbatim match", "source", hit.Source)
}

func (m *LogMonitor) Finish(hits []Hit) {
	m.logger.Debug("search finished", "hits", len(hits))
}
