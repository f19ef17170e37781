// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
)

// DefaultBatchSize bounds one SQL IN-list and one group of parallel upstream calls.
const DefaultBatchSize = 50

// Status is the per-id result of a remote batch.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNotFound    Status = "not_found"
	StatusRateLimited Status = "rate_limited"
	StatusFailed      Status = "failed"
)

// Outcome keeps the result of one id so callers can tell absence from faults.
type Outcome[T any] struct {
	ID     string
	Value  T
	Status Status
	Err    error
}

// Classify maps an error onto a batch [Status].
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case apperr.HasCode(err, "NOT_FOUND"), apperr.HasCode(err, "UPSTREAM_NOT_FOUND"):
		return StatusNotFound
	case apperr.HasCode(err, "UPSTREAM_RATE_LIMITED"), apperr.HasCode(err, "RATE_LIMITED"):
		return StatusRateLimited
	}
	return StatusFailed
}

// Chunk splits ids into consecutive slices of at most size elements.
// A size below one falls back to [DefaultBatchSize].
func Chunk[K any](ids []K, size int) [][]K {
	if size < 1 {
		size = DefaultBatchSize
	}

	chunks := make([][]K, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

/*
FetchChunks runs one fetch per chunk and concatenates the results in chunk order.

Used by the local store, where one chunk is one IN-list query. Any chunk error
fails the whole call.
*/
func FetchChunks[K, T any](ctx context.Context, ids []K, size int, fetch func(context.Context, []K) ([]T, error)) ([]T, error) {
	results := make([]T, 0, len(ids))
	for _, chunk := range Chunk(ids, size) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := fetch(ctx, chunk)
		if err != nil {
			return nil, err
		}
		results = append(results, rows...)
	}
	return results, nil
}

/*
FetchBatch fetches every id independently, tolerating per-id failure.

Description: Calls inside a chunk run concurrently and are joined before the
next chunk starts. A failing id never fails the batch; its [Outcome] carries the
classified status and error. Cancellation of ctx stops further chunks.

Parameters:
  - ctx: context.Context
  - ids: []string
  - size: int (chunk size, DefaultBatchSize when < 1)
  - fetch: func(context.Context, string) (T, error)

Returns:
  - []Outcome[T]: One outcome per id of every chunk that ran, in input order
  - error: ctx.Err() when cancelled between chunks
*/
func FetchBatch[T any](ctx context.Context, ids []string, size int, fetch func(context.Context, string) (T, error)) ([]Outcome[T], error) {
	outcomes := make([]Outcome[T], 0, len(ids))

	for _, chunk := range Chunk(ids, size) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slots := make([]Outcome[T], len(chunk))
		var group errgroup.Group
		for i, id := range chunk {
			group.Go(func() error {
				value, err := fetch(ctx, id)
				slots[i] = Outcome[T]{ID: id, Value: value, Status: Classify(err), Err: err}
				return nil
			})
		}
		_ = group.Wait()

		outcomes = append(outcomes, slots...)
	}

	return outcomes, nil
}

// Present returns the values of successful outcomes.
func Present[T any](outcomes []Outcome[T]) []T {
	values := make([]T, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Status == StatusOK {
			values = append(values, outcome.Value)
		}
	}
	return values
}

// Summarize counts outcomes by status.
func Summarize[T any](outcomes []Outcome[T]) map[Status]int {
	counts := make(map[Status]int, 4)
	for _, outcome := range outcomes {
		counts[outcome.Status]++
	}
	return counts
}
