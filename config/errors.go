package config

import "errors"

var (
	// ErrMissingOpenAIKey is returned when OPENAI_API_KEY is unset.
	ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY is required")

	// ErrMissingPineconeKey is returned when the pinecone store is selected without PINECONE_API_KEY.
	ErrMissingPineconeKey = errors.New("PINECONE_API_KEY is required for the pinecone store")

	// ErrMissingPineconeIndex is returned when neither PINECONE_SUMMARY_INDEX nor PINECONE_INDEX_HOST is set.
	ErrMissingPineconeIndex = errors.New("PINECONE_SUMMARY_INDEX or PINECONE_INDEX_HOST is required for the pinecone store")

	// ErrUnknownStore is returned when LIBRIS_STORE names an unsupported backend.
	ErrUnknownStore = errors.New("unknown store backend")

	// ErrMissingLocalDB is returned when the local store has no database path.
	ErrMissingLocalDB = errors.New("LIBRIS_LOCAL_DB is required for the local store")
)
