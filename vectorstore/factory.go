package vectorstore

import (
	"context"

	"github.com/tmc/langchaingo/vectorstores"
)

// Factory creates a vector store client. The ingestion pipeline calls it once
// per file, so implementations may build a fresh client on every call.
type Factory func(ctx context.Context) (vectorstores.VectorStore, error)

// Static returns a Factory that always hands out store.
func Static(store vectorstores.VectorStore) Factory {
	return func(context.Context) (vectorstores.VectorStore, error) {
		return store, nil
	}
}
