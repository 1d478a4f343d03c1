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

import (
	"fmt"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/libris/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// sizeSummaryRecord returns the encoded size of a SummaryRecord.
func sizeSummaryRecord(record *core.SummaryRecord) int {
	size := varint.Uint64.Size(uint64(record.Id))
	size += ord.String.Size(record.Source)
	size += ord.String.Size(record.Content)
	size += varint.Int.Size(len(record.Vector))
	for _, v := range record.Vector {
		size += varint.Uint32.Size(math.Float32bits(v))
	}
	size += varint.Int64.Size(timeToMicros(record.InsertedAt))
	size += varint.Int64.Size(timeToMicros(record.UpdatedAt))
	return size
}

// MarshalSummaryRecord serializes a SummaryRecord to bytes.
// Layout: id, source, content, vector length, vector values, inserted, updated.
func MarshalSummaryRecord(record *core.SummaryRecord) []byte {
	buf := make([]byte, sizeSummaryRecord(record))
	n := varint.Uint64.Marshal(uint64(record.Id), buf)
	n += ord.String.Marshal(record.Source, buf[n:])
	n += ord.String.Marshal(record.Content, buf[n:])
	n += varint.Int.Marshal(len(record.Vector), buf[n:])
	for _, v := range record.Vector {
		n += varint.Uint32.Marshal(math.Float32bits(v), buf[n:])
	}
	n += varint.Int64.Marshal(timeToMicros(record.InsertedAt), buf[n:])
	varint.Int64.Marshal(timeToMicros(record.UpdatedAt), buf[n:])
	return buf
}

// UnmarshalSummaryRecord deserializes a SummaryRecord from bytes.
func UnmarshalSummaryRecord(data []byte) (*core.SummaryRecord, error) {
	var (
		record core.SummaryRecord
		offset int
	)

	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	record.Id = core.ID(id)
	offset += n

	record.Source, n, err = ord.String.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: source: %w", ErrSerializationFailed, err)
	}
	offset += n

	record.Content, n, err = ord.String.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: content: %w", ErrSerializationFailed, err)
	}
	offset += n

	length, n, err := varint.Int.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	offset += n
	if length < 0 || length > len(data)-offset {
		return nil, ErrTruncatedData
	}
	if length > 0 {
		record.Vector = make([]float32, length)
		for i := range record.Vector {
			bits, n, err := varint.Uint32.Unmarshal(data[offset:])
			if err != nil {
				return nil, fmt.Errorf("%w: vector[%d]: %w", ErrSerializationFailed, i, err)
			}
			record.Vector[i] = math.Float32frombits(bits)
			offset += n
		}
	}

	inserted, n, err := varint.Int64.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted_at: %w", ErrSerializationFailed, err)
	}
	record.InsertedAt = microsToTime(inserted)
	offset += n

	updated, _, err := varint.Int64.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: updated_at: %w", ErrSerializationFailed, err)
	}
	record.UpdatedAt = microsToTime(updated)

	return &record, nil
}

func timeToMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microsToTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}
