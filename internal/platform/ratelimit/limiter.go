// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit throttles outbound calls to the upstream content API.

A single [Limiter] is constructed at process start and shared by every request.
It combines two budgets:

  - Concurrency: a FIFO weighted semaphore caps how many calls are in flight.
  - Interval: a token bucket caps how many calls start per second.

The limiter never inspects task results and never retries. An upstream 429 comes
back to the caller exactly as the task returned it.
*/
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrClosed is returned by [Limiter.Schedule] once [Limiter.Close] has been called.
var ErrClosed = errors.New("ratelimit: limiter closed")

// Config describes the admission budget.
type Config struct {
	// MaxConcurrent is the number of tasks allowed to run at once.
	MaxConcurrent int
	// RequestsPerSecond is the sustained start rate. Zero or less disables interval pacing.
	RequestsPerSecond float64
	// Burst is the number of starts allowed back to back.
	Burst int
}

// Stats is a point-in-time view of the limiter.
type Stats struct {
	Capacity int   `json:"capacity"`
	Running  int64 `json:"running"`
	Queued   int64 `json:"queued"`
}

// Limiter admits tasks under a concurrency and interval budget.
//
// # Concurrency
//
// Limiter is safe for concurrent use. Tasks are admitted in submission order;
// completion order is not guaranteed.
type Limiter struct {
	slots    *semaphore.Weighted
	bucket   *rate.Limiter
	capacity int

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup

	running atomic.Int64
	queued  atomic.Int64
}

// New constructs a [Limiter]. Non-positive values fall back to a budget of one.
func New(cfg Config) *Limiter {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Limiter{
		slots:    semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		bucket:   rate.NewLimiter(limit, cfg.Burst),
		capacity: cfg.MaxConcurrent,
	}
}

/*
Schedule runs task once it is admitted and returns the task's own error.

Description: The task waits for a concurrency slot and then for an interval token.
If ctx is cancelled while the task is still queued, it is dropped without running
and ctx.Err() is returned. The same ctx is handed to the task so in-flight HTTP
calls are aborted by the transport on cancellation.

Parameters:
  - ctx: context.Context (caller cancellation)
  - task: func(context.Context) error (exactly one outbound call)

Returns:
  - error: ErrClosed, ctx.Err() while queued, or whatever the task returned
*/
func (limiter *Limiter) Schedule(ctx context.Context, task func(context.Context) error) error {
	limiter.mu.Lock()
	if limiter.closed {
		limiter.mu.Unlock()
		return ErrClosed
	}
	limiter.pending.Add(1)
	limiter.mu.Unlock()
	defer limiter.pending.Done()

	limiter.queued.Add(1)
	err := limiter.slots.Acquire(ctx, 1)
	limiter.queued.Add(-1)
	if err != nil {
		return err
	}
	defer limiter.slots.Release(1)

	if err := limiter.bucket.Wait(ctx); err != nil {
		return err
	}

	limiter.running.Add(1)
	defer limiter.running.Add(-1)

	return task(ctx)
}

// Do schedules fn on limiter and returns its value.
func Do[T any](ctx context.Context, limiter *Limiter, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := limiter.Schedule(ctx, func(ctx context.Context) error {
		value, err := fn(ctx)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	return result, err
}

// Stats returns the current capacity, running and queued counts.
func (limiter *Limiter) Stats() Stats {
	return Stats{
		Capacity: limiter.capacity,
		Running:  limiter.running.Load(),
		Queued:   limiter.queued.Load(),
	}
}

/*
Close stops admitting new tasks and waits for already submitted ones to finish.

Returns:
  - error: ctx.Err() if the drain did not complete before ctx expired
*/
func (limiter *Limiter) Close(ctx context.Context) error {
	limiter.mu.Lock()
	limiter.closed = true
	limiter.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		limiter.pending.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
