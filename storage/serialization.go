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
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/scholarseek/core"
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

// MarshalVector serializes an embedding vector to bytes.
// Layout: varint element count followed by fixed-width float32 values.
func MarshalVector(v []float32) []byte {
	size := varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(v), buf)
	for _, f := range v {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes an embedding vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if length < 0 || length > len(data) {
		return nil, fmt.Errorf("%w: vector length %d", ErrTruncatedData, length)
	}
	v := make([]float32, length)
	for i := 0; i < length; i++ {
		f, consumed, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		v[i] = f
		n += consumed
	}
	return v, nil
}

func sizeStringSlice(ss []string) int {
	size := varint.Int.Size(len(ss))
	for _, s := range ss {
		size += ord.String.Size(s)
	}
	return size
}

func marshalStringSlice(ss []string, buf []byte) int {
	n := varint.Int.Marshal(len(ss), buf)
	for _, s := range ss {
		n += ord.String.Marshal(s, buf[n:])
	}
	return n
}

func unmarshalStringSlice(data []byte) ([]string, int, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, 0, err
	}
	if length < 0 || length > len(data) {
		return nil, 0, fmt.Errorf("%w: slice length %d", ErrTruncatedData, length)
	}
	ss := make([]string, length)
	for i := 0; i < length; i++ {
		s, consumed, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, 0, err
		}
		ss[i] = s
		n += consumed
	}
	return ss, n, nil
}

// MarshalProject serializes a Project to bytes.
func MarshalProject(project *core.Project) []byte {
	size := ord.String.Size(project.Id) +
		ord.String.Size(project.Name) +
		ord.String.Size(project.Description) +
		ord.String.Size(string(project.Status)) +
		sizeStringSlice(project.Bookmarks) +
		varint.Int64.Size(project.CreatedAt.UnixMicro()) +
		varint.Int64.Size(project.UpdatedAt.UnixMicro())

	buf := make([]byte, size)
	n := ord.String.Marshal(project.Id, buf)
	n += ord.String.Marshal(project.Name, buf[n:])
	n += ord.String.Marshal(project.Description, buf[n:])
	n += ord.String.Marshal(string(project.Status), buf[n:])
	n += marshalStringSlice(project.Bookmarks, buf[n:])
	n += varint.Int64.Marshal(project.CreatedAt.UnixMicro(), buf[n:])
	varint.Int64.Marshal(project.UpdatedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalProject deserializes a Project from bytes.
func UnmarshalProject(data []byte) (*core.Project, error) {
	project := &core.Project{}
	n := 0

	var err error
	var consumed int
	if project.Id, consumed, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += consumed
	if project.Name, consumed, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += consumed
	if project.Description, consumed, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += consumed
	var status string
	if status, consumed, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	project.Status = core.ProjectStatus(status)
	n += consumed
	if project.Bookmarks, consumed, err = unmarshalStringSlice(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += consumed
	var micros int64
	if micros, consumed, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	project.CreatedAt = time.UnixMicro(micros).UTC()
	n += consumed
	if micros, _, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	project.UpdatedAt = time.UnixMicro(micros).UTC()

	return project, nil
}

// MarshalAnalysisRecord serializes an AnalysisRecord to bytes.
func MarshalAnalysisRecord(record *core.AnalysisRecord) []byte {
	size := varint.Uint64.Size(uint64(record.Id)) +
		ord.String.Size(record.ProfileURL) +
		ord.String.Size(record.Analysis) +
		sizeStringSlice(record.Keywords) +
		varint.Int64.Size(record.StoredAt.UnixMicro())

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(record.Id), buf)
	n += ord.String.Marshal(record.ProfileURL, buf[n:])
	n += ord.String.Marshal(record.Analysis, buf[n:])
	n += marshalStringSlice(record.Keywords, buf[n:])
	varint.Int64.Marshal(record.StoredAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalAnalysisRecord deserializes an AnalysisRecord from bytes.
func UnmarshalAnalysisRecord(data []byte) (*core.AnalysisRecord, error) {
	record := &core.AnalysisRecord{}
	n := 0

	id, consumed, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	record.Id = core.ID(id)
	n += consumed
	if record.ProfileURL, consumed, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += consumed
	if record.Analysis, consumed, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += consumed
	if record.Keywords, consumed, err = unmarshalStringSlice(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += consumed
	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	record.StoredAt = time.UnixMicro(micros).UTC()

	return record, nil
}
