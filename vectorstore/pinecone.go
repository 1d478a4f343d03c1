package vectorstore

import (
	"context"
	"fmt"
	"log/slog"

	gopinecone "github.com/pinecone-io/go-pinecone/pinecone"
	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/pinecone"
)

// TextKey is the metadata key Pinecone records carry the summary text under.
const TextKey = "text"

// PineconeConfig locates a Pinecone index.
type PineconeConfig struct {
	APIKey    string
	IndexName string // Looked up with DescribeIndex when IndexHost is empty
	IndexHost string
	Namespace string
}

// Validate checks that the config can reach an index.
func (c PineconeConfig) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.IndexName == "" && c.IndexHost == "" {
		return ErrMissingIndex
	}
	return nil
}

// HostResolver returns the data-plane host of the named index.
type HostResolver func(ctx context.Context, apiKey, indexName string) (string, error)

// PineconeOption customizes a Pinecone factory.
type PineconeOption func(*pineconeFactory)

// WithHostResolver replaces the DescribeIndex lookup.
func WithHostResolver(resolve HostResolver) PineconeOption {
	return func(f *pineconeFactory) {
		f.resolve = resolve
	}
}

type pineconeFactory struct {
	config   PineconeConfig
	embedder *EmbedderAdapter
	resolve  HostResolver
	logger   *slog.Logger
}

// NewPineconeFactory returns a Factory that builds a new Pinecone store client
// on every call. Summaries are embedded with embedder.
func NewPineconeFactory(config PineconeConfig, embedder ai.Embedder, opts ...PineconeOption) (Factory, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	f := &pineconeFactory{
		config:   config,
		embedder: NewEmbedderAdapter(embedder),
		resolve:  describeIndexHost,
		logger:   slog.Default().With("component", "pinecone"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f.newStore, nil
}

func (f *pineconeFactory) newStore(ctx context.Context) (vectorstores.VectorStore, error) {
	host := f.config.IndexHost
	if host == "" {
		var err error
		host, err = f.resolve(ctx, f.config.APIKey, f.config.IndexName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve host for index %q: %w", f.config.IndexName, err)
		}
		f.logger.Debug("resolved index host", "index", f.config.IndexName, "host", host)
	}

	opts := []pinecone.Option{
		pinecone.WithHost(host),
		pinecone.WithAPIKey(f.config.APIKey),
		pinecone.WithEmbedder(f.embedder),
		pinecone.WithTextKey(TextKey),
	}
	if f.config.Namespace != "" {
		opts = append(opts, pinecone.WithNameSpace(f.config.Namespace))
	}

	store, err := pinecone.New(opts...)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// describeIndexHost asks the Pinecone control plane for the index host.
func describeIndexHost(ctx context.Context, apiKey, indexName string) (string, error) {
	client, err := gopinecone.NewClient(gopinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return "", err
	}
	index, err := client.DescribeIndex(ctx, indexName)
	if err != nil {
		return "", err
	}
	return index.Host, nil
}

// sourceOf extracts the source metadata from a document's metadata.
func sourceOf(metadata map[string]any) (string, bool) {
	v, ok := metadata[core.SourceKey]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
