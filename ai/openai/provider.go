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

package openai

import (
	"log/slog"
	"net/http"

	"github.com/poiesic/libris/ai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages chat model and embedder instances.
type Provider struct {
	config   *ai.Config
	chat     *ChatModel
	embedder *Embedder
	logger   *slog.Logger
}

// ProviderOption customizes the langchaingo clients created by a Provider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	clientOpts []openai.Option
}

// WithHTTPClient routes every request through the given HTTP client.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(o *providerOptions) {
		o.clientOpts = append(o.clientOpts, openai.WithHTTPClient(client))
	}
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	options := &providerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	chat, err := newChatModel(config, options.clientOpts...)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config, options.clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:   config,
		chat:     chat,
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-provider"),
	}, nil
}

// ChatModel returns the chat completion service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
