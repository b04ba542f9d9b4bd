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


package ingestion

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/scholarseek/ai"
	"github.com/poiesic/scholarseek/core"
	"github.com/poiesic/scholarseek/warehouse"
)

const (
	// defaultBatchSize is the number of records embedded and inserted
	// per pool task.
	defaultBatchSize = 16

	// candidateBioLimit caps the biography runes included in the
	// embedded candidate text, matching the realtime ranking path.
	candidateBioLimit = 200

	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second

	// progressInterval is how many records pass between progress logs.
	progressInterval = 500
)

// LoadStats summarizes a completed corpus load.
type LoadStats struct {
	Total    int // records decoded from the stream
	Inserted int // records written to the warehouse
	Embedded int // records written with an embedding vector
	Skipped  int // malformed or incomplete lines dropped by the decoder
	Failed   int // records that could not be inserted
}

// Loader bulk-loads researcher records into the warehouse.
// Embedding batches run concurrently on a bounded worker pool.
type Loader struct {
	warehouse  warehouse.Warehouse
	embedder   ai.Embedder
	pool       *ants.Pool
	batchSize  int
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}

		if l.pool != nil {
			l.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// WithBatchSize sets how many records are embedded and inserted per task.
func WithBatchSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		l.batchSize = size
		return nil
	}
}

// WithRetry configures the embedding retry policy.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(l *Loader) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		l.maxRetries = maxAttempts
		l.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a corpus loader. The provider may be nil, in which
// case records are inserted without embeddings and only lexical search
// will see them.
func NewLoader(wh warehouse.Warehouse, provider ai.AIProvider, opts ...Option) (*Loader, error) {
	if wh == nil {
		return nil, ErrWarehouseRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		warehouse:  wh,
		pool:       pool,
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		logger:     slog.Default(),
	}
	if provider != nil {
		l.embedder = provider.Embedder()
	}

	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.Release()
			return nil, optErr
		}
	}

	return l, nil
}

// Load reads a JSON lines corpus stream and inserts every decoded record
// into the warehouse. Batches are processed concurrently; a batch whose
// embedding call fails after retries is inserted without vectors rather
// than dropped. Load blocks until all batches complete.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*LoadStats, error) {
	records, skipped, err := decodeRecords(r, l.logger)
	if err != nil {
		return nil, err
	}

	stats := &LoadStats{Total: len(records), Skipped: skipped}
	if len(records) == 0 {
		return stats, nil
	}

	var (
		inserted atomic.Int64
		embedded atomic.Int64
		failed   atomic.Int64
		done     atomic.Int64
		wg       sync.WaitGroup
	)

	for start := 0; start < len(records); start += l.batchSize {
		end := start + l.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		wg.Add(1)
		submitErr := l.pool.Submit(func() {
			defer wg.Done()

			withVectors := l.embedBatch(ctx, batch)
			if err := l.warehouse.InsertResearchers(ctx, batch...); err != nil {
				l.logger.Error("batch insert failed", "records", len(batch), "err", err)
				failed.Add(int64(len(batch)))
			} else {
				inserted.Add(int64(len(batch)))
				embedded.Add(int64(withVectors))
			}

			if n := done.Add(int64(len(batch))); n%progressInterval < int64(len(batch)) {
				l.logger.Info("load progress", "processed", n, "total", len(records))
			}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, submitErr
		}
	}
	wg.Wait()

	stats.Inserted = int(inserted.Load())
	stats.Embedded = int(embedded.Load())
	stats.Failed = int(failed.Load())
	l.logger.Info("corpus load finished",
		"total", stats.Total,
		"inserted", stats.Inserted,
		"embedded", stats.Embedded,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
	return stats, nil
}

// embedBatch fills the Embedding field of each record in place and
// returns how many records received a vector. Embedding failures leave
// the batch without vectors so the records still serve lexical search.
func (l *Loader) embedBatch(ctx context.Context, batch []*core.ResearcherRecord) int {
	if l.embedder == nil {
		return 0
	}

	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = record.CandidateText(candidateBioLimit)
	}

	var vectors [][]float32
	err := retryWithBackoff(ctx, l.logger, func() error {
		var embedErr error
		vectors, embedErr = l.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, l.maxRetries, l.baseDelay)
	if err != nil {
		l.logger.Warn("embedding batch failed, inserting without vectors", "records", len(batch), "err", err)
		return 0
	}
	if len(vectors) != len(batch) {
		l.logger.Warn("embedding count mismatch, inserting without vectors", "want", len(batch), "got", len(vectors))
		return 0
	}

	for i, record := range batch {
		record.Embedding = core.NormalizeDimension(vectors[i], core.EmbeddingDim)
	}
	return len(batch)
}

// Release releases the worker pool.
// The loader should not be used after calling Release.
func (l *Loader) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}
