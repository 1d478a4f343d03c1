package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/loader"
	"github.com/poiesic/libris/vectorstore"
	"github.com/tmc/langchaingo/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultExtension selects the files a run visits.
	DefaultExtension = ".pdf"

	// DefaultSourcePrefix is joined with the file name to form a summary's source.
	DefaultSourcePrefix = "docs"

	// CompletionMessage is printed after every file has been stored.
	CompletionMessage = "All summaries processed"
)

// Pipeline summarizes documents and stores the summaries.
type Pipeline struct {
	chat         ai.ChatModel
	loader       loader.Loader
	stores       vectorstore.Factory
	output       io.Writer
	extension    string
	sourcePrefix string
	instruction  string
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithOutput sets where file names and the completion line are printed.
// Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w == nil {
			return ErrOutputRequired
		}
		p.output = w
		return nil
	}
}

// WithExtension sets the case-sensitive file name suffix to process.
// Default is ".pdf".
func WithExtension(ext string) Option {
	return func(p *Pipeline) error {
		if ext == "" {
			return loader.ErrEmptyExtension
		}
		p.extension = ext
		return nil
	}
}

// WithSourcePrefix sets the prefix of each summary's source metadata.
// Default is "docs", giving sources like "docs/book.pdf".
func WithSourcePrefix(prefix string) Option {
	return func(p *Pipeline) error {
		p.sourcePrefix = prefix
		return nil
	}
}

// WithInstruction replaces DefaultInstruction in the summary prompt.
func WithInstruction(instruction string) Option {
	return func(p *Pipeline) error {
		p.instruction = instruction
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(chat ai.ChatModel, docs loader.Loader, stores vectorstore.Factory, opts ...Option) (*Pipeline, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}
	if docs == nil {
		return nil, ErrLoaderRequired
	}
	if stores == nil {
		return nil, ErrStoreFactoryRequired
	}

	p := &Pipeline{
		chat:         chat,
		loader:       docs,
		stores:       stores,
		output:       os.Stdout,
		extension:    DefaultExtension,
		sourcePrefix: DefaultSourcePrefix,
		instruction:  DefaultInstruction,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// Run summarizes every matching file directly inside dir, in name order.
// The first failure ends the run; later files are not loaded.
func (p *Pipeline) Run(ctx context.Context, dir string) error {
	names, err := loader.Scan(dir, p.extension)
	if err != nil {
		return err
	}
	p.logger.Info("starting summarization", "dir", dir, "files", len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(p.output, name)
		if err := p.processFile(ctx, dir, name); err != nil {
			p.logger.Error("failed to process file", "file", name, "err", err)
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	fmt.Fprintln(p.output, CompletionMessage)
	p.logger.Info("summarization complete", "files", len(names))
	return nil
}

// SourceFor returns the source metadata value for a file name.
func (p *Pipeline) SourceFor(name string) string {
	if p.sourcePrefix == "" {
		return name
	}
	return path.Join(p.sourcePrefix, name)
}

func (p *Pipeline) processFile(ctx context.Context, dir, name string) (err error) {
	source := p.SourceFor(name)

	ctx, span := otel.Tracer("github.com/poiesic/libris/ingestion").Start(ctx, "summarize_file")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("libris.file", name),
		attribute.String("libris.source", source),
		attribute.String("langsmith.span.kind", "chain"),
	)

	doc, err := p.loader.Load(ctx, filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("failed to load: %w", err)
	}
	doc.Source = source
	span.SetAttributes(attribute.Int("libris.pages", len(doc.Pages)))

	summary, err := p.Summarize(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to summarize: %w", err)
	}

	store, err := p.stores(ctx)
	if err != nil {
		return fmt.Errorf("failed to create vector store: %w", err)
	}

	ids, err := store.AddDocuments(ctx, []schema.Document{{
		PageContent: summary,
		Metadata:    map[string]any{core.SourceKey: source},
	}})
	if err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}

	p.logger.Info("stored summary", "source", source, "pages", len(doc.Pages), "summary_length", len(summary), "ids", ids)
	return nil
}
