package ai

import (
	"context"

	"github.com/poiesic/libris/core"
)

// ChatModel sends role-tagged messages to a hosted chat model.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// Chat sends messages, in order, as the complete input of a single
	// completion request and returns the model's reply.
	// The reply has RoleAI and the text of the first choice.
	// Returns an error if the request fails or the model returns no choices.
	Chat(ctx context.Context, messages []core.Message) (core.Message, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages ChatModel and Embedder instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// ChatModel returns the chat completion service.
	// The returned ChatModel is safe for concurrent use.
	ChatModel() ChatModel

	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
