// Package jobs runs the process's periodic background work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// Task is one unit of periodic work. An error fails only the current tick.
type Task func(ctx context.Context) error

// Runner executes a Task once immediately and then on a fixed interval.
// Ticks run on a single goroutine, so a slow tick delays the next one
// instead of overlapping it.
type Runner struct {
	name     string
	interval time.Duration
	task     Task
	locker   Locker
	lockTTL  time.Duration
}

type RunnerOption func(*Runner)

// WithLocker makes every tick acquire a named lock first. A tick that cannot
// get the lock is skipped.
func WithLocker(l Locker) RunnerOption {
	return func(r *Runner) { r.locker = l }
}

// WithLockTTL sets how long a tick's lock outlives a crashed holder. It
// defaults to twice the interval; a tick that runs longer than the TTL can
// overlap with a tick on another instance.
func WithLockTTL(ttl time.Duration) RunnerOption {
	return func(r *Runner) { r.lockTTL = ttl }
}

func NewRunner(name string, interval time.Duration, task Task, opts ...RunnerOption) *Runner {
	r := &Runner{name: name, interval: interval, task: task}
	for _, opt := range opts {
		opt(r)
	}
	if r.lockTTL <= 0 {
		r.lockTTL = 2 * interval
	}
	return r
}

// Start runs the loop in a goroutine. The returned channel is closed once the
// loop has exited after ctx is cancelled.
func (r *Runner) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()
	return done
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	slog.Info("background job started", "job", r.name, "interval", r.interval.String())
	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.tick(ctx)
		case <-ctx.Done():
			slog.Info("background job stopped", "job", r.name)
			return
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("background job panicked", "job", r.name, "error", fmt.Sprint(rec))
			sentry.CurrentHub().Recover(rec)
		}
	}()

	if r.locker != nil {
		unlock, ok, err := r.locker.TryLock(ctx, "jobs:"+r.name, r.lockTTL)
		if err != nil {
			slog.Error("background job lock failed", "job", r.name, "error", err)
			return
		}
		if !ok {
			slog.Debug("background job tick skipped, lock held elsewhere", "job", r.name)
			return
		}
		defer unlock()
	}

	start := time.Now()
	if err := r.task(ctx); err != nil {
		slog.Error("background job tick failed", "job", r.name, "error", err, "duration_ms", time.Since(start).Milliseconds())
		sentry.CaptureException(err)
	}
}
