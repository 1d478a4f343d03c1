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

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/tracing"
	"github.com/poiesic/libris/vectorstore"
)

// Environment variable names.
const (
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvOpenAIBaseURL     = "OPENAI_BASE_URL"
	EnvChatModel         = "LIBRIS_CHAT_MODEL"
	EnvEmbeddingModel    = "LIBRIS_EMBEDDING_MODEL"
	EnvPineconeAPIKey    = "PINECONE_API_KEY"
	EnvPineconeIndex     = "PINECONE_SUMMARY_INDEX"
	EnvPineconeHost      = "PINECONE_INDEX_HOST"
	EnvPineconeNamespace = "PINECONE_NAMESPACE"
	EnvTracingAPIKey     = "LANGCHAIN_API_KEY"
	EnvTracingProject    = "LANGCHAIN_PROJECT"
	EnvTracingEnabled    = "LANGCHAIN_TRACING_V2"
	EnvTracingEndpoint   = "LANGCHAIN_ENDPOINT"
	EnvDocsDir           = "LIBRIS_DOCS_DIR"
	EnvStore             = "LIBRIS_STORE"
	EnvLocalDB           = "LIBRIS_LOCAL_DB"
)

// Store backends.
const (
	StorePinecone = "pinecone"
	StoreLocal    = "local"
)

// Defaults for optional settings.
const (
	DefaultEnvFile = ".env"
	DefaultDocsDir = "./docs"
	DefaultStore   = StorePinecone
	DefaultLocalDB = "./libris_db"
)

// Config is the full set of environment-driven settings.
type Config struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	ChatModel      string
	EmbeddingModel string

	PineconeAPIKey    string
	PineconeIndex     string
	PineconeHost      string
	PineconeNamespace string

	TracingEnabled  bool
	TracingAPIKey   string
	TracingProject  string
	TracingEndpoint string

	DocsDir string
	Store   string
	LocalDB string
}

// Load reads envFile into the process environment, then builds a Config
// from it. A missing envFile is not an error. Load does not validate.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) *Config {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	return &Config{
		OpenAIAPIKey:   get(EnvOpenAIAPIKey, ""),
		OpenAIBaseURL:  get(EnvOpenAIBaseURL, ai.DefaultBaseURL),
		ChatModel:      get(EnvChatModel, ai.DefaultChatModel),
		EmbeddingModel: get(EnvEmbeddingModel, ai.DefaultEmbeddingModel),

		PineconeAPIKey:    get(EnvPineconeAPIKey, ""),
		PineconeIndex:     get(EnvPineconeIndex, ""),
		PineconeHost:      get(EnvPineconeHost, ""),
		PineconeNamespace: get(EnvPineconeNamespace, ""),

		TracingEnabled:  truthy(getenv(EnvTracingEnabled)),
		TracingAPIKey:   get(EnvTracingAPIKey, ""),
		TracingProject:  get(EnvTracingProject, ""),
		TracingEndpoint: get(EnvTracingEndpoint, tracing.DefaultEndpoint),

		DocsDir: get(EnvDocsDir, DefaultDocsDir),
		Store:   strings.ToLower(get(EnvStore, DefaultStore)),
		LocalDB: get(EnvLocalDB, DefaultLocalDB),
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// ValidateAI checks the settings every model call needs.
func (c *Config) ValidateAI() error {
	if c.OpenAIAPIKey == "" {
		return ErrMissingOpenAIKey
	}
	return nil
}

// ValidateStore checks the settings of the selected store backend.
func (c *Config) ValidateStore() error {
	switch c.Store {
	case StorePinecone:
		if c.PineconeAPIKey == "" {
			return ErrMissingPineconeKey
		}
		if c.PineconeIndex == "" && c.PineconeHost == "" {
			return ErrMissingPineconeIndex
		}
	case StoreLocal:
		if c.LocalDB == "" {
			return ErrMissingLocalDB
		}
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownStore, c.Store, StorePinecone, StoreLocal)
	}
	return nil
}

// Validate checks both the model and the store settings.
func (c *Config) Validate() error {
	return errors.Join(c.ValidateAI(), c.ValidateStore())
}

// AI returns the model provider configuration.
func (c *Config) AI() *ai.Config {
	return ai.NewConfig(
		ai.WithBaseURL(c.OpenAIBaseURL),
		ai.WithAPIKey(c.OpenAIAPIKey),
		ai.WithChatModel(c.ChatModel),
		ai.WithEmbeddingModel(c.EmbeddingModel),
	)
}

// Pinecone returns the Pinecone index configuration.
func (c *Config) Pinecone() vectorstore.PineconeConfig {
	return vectorstore.PineconeConfig{
		APIKey:    c.PineconeAPIKey,
		IndexName: c.PineconeIndex,
		IndexHost: c.PineconeHost,
		Namespace: c.PineconeNamespace,
	}
}

// Tracing returns the span export configuration. console receives spans
// when tracing is on without an API key.
func (c *Config) Tracing(console io.Writer) tracing.Config {
	return tracing.Config{
		Enabled:  c.TracingEnabled,
		APIKey:   c.TracingAPIKey,
		Project:  c.TracingProject,
		Endpoint: c.TracingEndpoint,
		Console:  console,
	}
}
