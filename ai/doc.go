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

// Package ai provides abstractions for the AI services used by libris.
//
// This package defines interfaces for chat completion and text embeddings.
// The pipelines depend on these abstractions rather than on a concrete
// client, so tests can swap in deterministic doubles.
//
// # Interfaces
//
//   - ChatModel: Sends role-tagged messages and returns the model reply
//   - Embedder: Generates vector embeddings from text
//   - AIProvider: Aggregates both services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external services
//
// Public constructors in ai/openai return INTERFACE types. Test constructors
// in ai/mock return CONCRETE types so tests can inspect recorded calls.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	reply, err := provider.ChatModel().Chat(ctx, []core.Message{core.HumanMessage("What is 1 + 1?")})
//	vector, err := provider.Embedder().EmbedText(ctx, reply.Content)
package ai
