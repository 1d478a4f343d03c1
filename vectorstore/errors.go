package vectorstore

import "errors"

var (
	// ErrMissingAPIKey is returned when no Pinecone API key is configured.
	ErrMissingAPIKey = errors.New("pinecone api key is required")

	// ErrMissingIndex is returned when neither an index name nor a host is configured.
	ErrMissingIndex = errors.New("pinecone index name or host is required")

	// ErrEmbedderRequired is returned when a store is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrRepositoryRequired is returned when a local store is built without a repository.
	ErrRepositoryRequired = errors.New("summary repository is required")

	// ErrMissingSource is returned when a document has no source metadata.
	ErrMissingSource = errors.New("document has no source metadata")

	// ErrInvalidScoreThreshold is returned for thresholds outside [0, 1].
	ErrInvalidScoreThreshold = errors.New("score threshold must be between 0 and 1")

	// ErrFiltersUnsupported is returned when metadata filters are passed to the local store.
	ErrFiltersUnsupported = errors.New("metadata filters are not supported by the local store")

	// ErrEmbeddingCount is returned when the embedder returns the wrong number of vectors.
	ErrEmbeddingCount = errors.New("embedding count does not match document count")
)
