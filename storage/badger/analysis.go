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


package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scholarseek/core"
	"github.com/poiesic/scholarseek/storage"
)

// AnalysisRepository implements storage.AnalysisRepository for BadgerDB.
type AnalysisRepository struct {
	backend *Backend
}

var _ storage.AnalysisRepository = (*AnalysisRepository)(nil)

// NewAnalysisRepository creates a new AnalysisRepository.
func NewAnalysisRepository(backend *Backend) *AnalysisRepository {
	return &AnalysisRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *AnalysisRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *AnalysisRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutAnalysis stores an analysis record keyed by its content-derived ID,
// overwriting any previous analysis for the same profile URL.
func (r *AnalysisRepository) PutAnalysis(ctx context.Context, record *core.AnalysisRecord) (*core.AnalysisRecord, error) {
	if err := core.ValidateAnalysisRecord(record); err != nil {
		return nil, err
	}

	record.Id = core.IDFromContent(record.ProfileURL)
	record.StoredAt = time.Now().UTC()

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeAnalysisKey(record.Id), storage.MarshalAnalysisRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetAnalysis retrieves the analysis for a profile URL.
func (r *AnalysisRepository) GetAnalysis(ctx context.Context, profileURL string) (*core.AnalysisRecord, error) {
	var record *core.AnalysisRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeAnalysisKey(core.IDFromContent(profileURL)))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			record, err = storage.UnmarshalAnalysisRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteAnalysis removes the analysis for a profile URL.
func (r *AnalysisRepository) DeleteAnalysis(ctx context.Context, profileURL string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAnalysisKey(core.IDFromContent(profileURL))
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListAnalyses retrieves all stored analyses, newest first.
func (r *AnalysisRepository) ListAnalyses(ctx context.Context) ([]*core.AnalysisRecord, error) {
	var records []*core.AnalysisRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(analysisPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.AnalysisRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalAnalysisRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *core.AnalysisRecord) int {
		return b.StoredAt.Compare(a.StoredAt)
	})
	return records, nil
}
