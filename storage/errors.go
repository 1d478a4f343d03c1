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

package storage

import "errors"

var (
	// ErrNotFound is returned when no summary has the requested ID.
	ErrNotFound = errors.New("summary not found")

	// ErrStorageClosed is returned by every operation after Close.
	ErrStorageClosed = errors.New("summary storage is closed")

	// ErrInvalidQuery is returned when a search or listing limit is not positive.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrSerializationFailed wraps mus-go decoding failures of stored summaries.
	ErrSerializationFailed = errors.New("summary serialization failed")

	// ErrTruncatedData is returned when a stored value ends before its last field.
	ErrTruncatedData = errors.New("truncated summary data")
)
