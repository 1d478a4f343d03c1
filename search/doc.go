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

// Package search answers free-text questions against stored book summaries.
//
// A Searcher asks a vector store for the summaries nearest to a query and
// ranks them. Similarity comes from the store; summaries that mention every
// significant query term get a fixed verbatim boost on top, so an exact
// title or author match outranks a merely related book.
package search
