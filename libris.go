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

package libris

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/ai/openai"
	"github.com/poiesic/libris/config"
	"github.com/poiesic/libris/conversation"
	"github.com/poiesic/libris/ingestion"
	"github.com/poiesic/libris/loader"
	"github.com/poiesic/libris/reembed"
	"github.com/poiesic/libris/search"
	"github.com/poiesic/libris/storage"
	"github.com/poiesic/libris/storage/badger"
	"github.com/poiesic/libris/vectorstore"
)

var (
	// ErrConfigRequired is returned when NewEngine is called without a config.
	ErrConfigRequired = errors.New("config is required")

	// ErrLocalStoreRequired is returned by operations that only work on the local store.
	ErrLocalStoreRequired = errors.New("operation requires the local store")
)

// Engine wires the model provider, document loader and vector store
// selected by a Config. The vector store is opened on first use, so Ask
// never touches Pinecone or the local database.
type Engine struct {
	cfg         *config.Config
	provider    ai.AIProvider
	docs        loader.Loader
	stores      vectorstore.Factory
	repo        storage.SummaryRepository
	ownsRepo    bool
	resolveHost vectorstore.HostResolver
	logger      *slog.Logger

	mu sync.Mutex
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithProvider replaces the OpenAI provider built from the config.
// The engine closes it on Close.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(e *Engine) error {
		e.provider = provider
		return nil
	}
}

// WithLoader replaces the PDF loader.
func WithLoader(docs loader.Loader) EngineOption {
	return func(e *Engine) error {
		e.docs = docs
		return nil
	}
}

// WithRepository uses repo as the local store instead of opening the
// configured database. The caller keeps ownership of repo.
func WithRepository(repo storage.SummaryRepository) EngineOption {
	return func(e *Engine) error {
		e.repo = repo
		return nil
	}
}

// WithStoreFactory replaces the configured vector store.
func WithStoreFactory(stores vectorstore.Factory) EngineOption {
	return func(e *Engine) error {
		e.stores = stores
		return nil
	}
}

// WithHostResolver replaces the Pinecone DescribeIndex lookup.
func WithHostResolver(resolve vectorstore.HostResolver) EngineOption {
	return func(e *Engine) error {
		e.resolveHost = resolve
		return nil
	}
}

// NewEngine validates the model settings in cfg and builds the provider.
// Store settings are validated when the store is first needed. Settings
// replaced by options are not validated.
func NewEngine(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	e := &Engine{
		cfg:    cfg,
		docs:   loader.NewPDFLoader(),
		logger: slog.Default().With("component", "engine"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.provider == nil {
		if err := cfg.ValidateAI(); err != nil {
			return nil, err
		}
		provider, err := openai.NewProvider(cfg.AI())
		if err != nil {
			return nil, err
		}
		e.provider = provider
	}

	e.logger.Debug("engine ready", "store", cfg.Store, "chatModel", cfg.ChatModel)
	return e, nil
}

// storeFactory opens the configured vector store once. A failed attempt is
// retried on the next call.
func (e *Engine) storeFactory() (vectorstore.Factory, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stores == nil {
		if err := e.openStore(e.cfg); err != nil {
			return nil, err
		}
	}
	return e.stores, nil
}

func (e *Engine) openStore(cfg *config.Config) error {
	if err := cfg.ValidateStore(); err != nil {
		return err
	}
	e.logger.Debug("opening vector store", "store", cfg.Store)

	switch cfg.Store {
	case config.StoreLocal:
		if e.repo == nil {
			repo, err := badger.NewRepository(cfg.LocalDB)
			if err != nil {
				return err
			}
			e.repo = repo
			e.ownsRepo = true
		}
		store, err := vectorstore.NewLocalStore(e.repo, e.provider.Embedder())
		if err != nil {
			return errors.Join(err, e.closeRepo())
		}
		e.stores = vectorstore.Static(store)
	default:
		var popts []vectorstore.PineconeOption
		if e.resolveHost != nil {
			popts = append(popts, vectorstore.WithHostResolver(e.resolveHost))
		}
		stores, err := vectorstore.NewPineconeFactory(cfg.Pinecone(), e.provider.Embedder(), popts...)
		if err != nil {
			return err
		}
		e.stores = stores
	}
	return nil
}

// Ask sends prompt to the chat model and returns the reply text.
func (e *Engine) Ask(ctx context.Context, prompt string) (string, error) {
	runner, err := conversation.NewRunner(e.provider.ChatModel())
	if err != nil {
		return "", err
	}
	return runner.Run(ctx, prompt)
}

// NewIngestionPipeline returns a summarization pipeline over the engine's
// loader and vector store.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	stores, err := e.storeFactory()
	if err != nil {
		return nil, err
	}
	return ingestion.NewPipeline(e.provider.ChatModel(), e.docs, stores, opts...)
}

// Summarize runs the ingestion pipeline over dir.
func (e *Engine) Summarize(ctx context.Context, dir string, opts ...ingestion.Option) error {
	pipeline, err := e.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	return pipeline.Run(ctx, dir)
}

// NewSearcher returns a searcher over a freshly created vector store.
func (e *Engine) NewSearcher(ctx context.Context, opts ...search.Option) (*search.Searcher, error) {
	stores, err := e.storeFactory()
	if err != nil {
		return nil, err
	}
	store, err := stores(ctx)
	if err != nil {
		return nil, err
	}
	return search.NewSearcher(store, opts...)
}

// NewReembedder returns a reembedder over the local store.
func (e *Engine) NewReembedder(cfg *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	if e.Repository() == nil && e.cfg.Store != config.StoreLocal {
		return nil, ErrLocalStoreRequired
	}
	if _, err := e.storeFactory(); err != nil {
		return nil, err
	}
	repo := e.Repository()
	if repo == nil {
		return nil, ErrLocalStoreRequired
	}
	return reembed.NewReembedder(repo, e.provider.Embedder(), cfg, progress)
}

// Repository returns the local summary repository. It is nil until the
// local store has been opened, and always nil for Pinecone.
func (e *Engine) Repository() storage.SummaryRepository {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo
}

// Close releases the provider and any repository the engine opened.
func (e *Engine) Close() error {
	var errs []error
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	e.mu.Lock()
	err := e.closeRepo()
	e.mu.Unlock()
	if err != nil {
		e.logger.Error("error closing summary repository", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Engine) closeRepo() error {
	if !e.ownsRepo || e.repo == nil {
		return nil
	}
	repo := e.repo
	e.repo, e.ownsRepo = nil, false
	return repo.Close()
}
