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

// Package storage provides the storage abstraction layer for libris.
//
// This package defines repository interfaces that decouple the local summary
// index from business logic. The pinecone-backed pipelines never touch it;
// it backs the "local" vector store, retrieval against that store, and the
// re-embedding maintenance command.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces:
//
//	repo, err := badger.NewRepository(path)  // returns storage.SummaryRepository
//
// Internal constructors (newBackend and friends) may return concrete types
// since they're only used within the implementation package.
//
// # Architecture
//
//   - Repository: operations shared by every repository (similarity search, Close)
//   - SummaryRepository: operations for document summaries and their embeddings
//
// # Usage
//
//	repo, err := badger.NewRepository("./libris_db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
