package vectorstore

import (
	"context"

	"github.com/poiesic/libris/ai"
	"github.com/tmc/langchaingo/embeddings"
)

// EmbedderAdapter exposes an ai.Embedder as a langchaingo embeddings.Embedder.
type EmbedderAdapter struct {
	embedder ai.Embedder
}

var _ embeddings.Embedder = (*EmbedderAdapter)(nil)

// NewEmbedderAdapter wraps embedder.
func NewEmbedderAdapter(embedder ai.Embedder) *EmbedderAdapter {
	return &EmbedderAdapter{embedder: embedder}
}

// EmbedDocuments returns one vector per text.
func (a *EmbedderAdapter) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return a.embedder.EmbedTexts(ctx, texts)
}

// EmbedQuery embeds a single search query.
func (a *EmbedderAdapter) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return a.embedder.EmbedText(ctx, text)
}
