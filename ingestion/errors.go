package ingestion

import "errors"

var (
	// ErrChatModelRequired is returned when a chat model is not provided.
	ErrChatModelRequired = errors.New("chat model required")

	// ErrLoaderRequired is returned when a document loader is not provided.
	ErrLoaderRequired = errors.New("document loader required")

	// ErrStoreFactoryRequired is returned when a vector store factory is not provided.
	ErrStoreFactoryRequired = errors.New("vector store factory required")

	// ErrOutputRequired is returned when WithOutput is given a nil writer.
	ErrOutputRequired = errors.New("output writer required")
)
