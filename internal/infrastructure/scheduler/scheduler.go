// Package scheduler runs cancellable periodic background work: storefront
// live updates, idle session expiry and analytics cache warming.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TaskFunc is one tick of a periodic task
type TaskFunc func(ctx context.Context) error

// TaskConfig holds periodic task configuration
type TaskConfig struct {
	Name           string
	Interval       time.Duration
	RunImmediately bool          // run once on Start before the first tick
	Timeout        time.Duration // per-run timeout, 0 = none
}

// PeriodicTask calls a function at a fixed interval until it is stopped or
// the context it was started with ends. Ticks never overlap; a tick that
// arrives while the previous run is still going is skipped.
type PeriodicTask struct {
	config TaskConfig
	fn     TaskFunc
	logger *zap.Logger

	runs     atomic.Int64
	failures atomic.Int64

	cancel    context.CancelFunc
	done      chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewPeriodicTask creates a stopped task
func NewPeriodicTask(config TaskConfig, fn TaskFunc, logger *zap.Logger) *PeriodicTask {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodicTask{
		config: config,
		fn:     fn,
		logger: logger.With(zap.String("task", config.Name)),
	}
}

// Start launches the task loop. Starting a running task is a no-op.
func (t *PeriodicTask) Start(ctx context.Context) error {
	if t.fn == nil {
		return ErrNilTask
	}
	if t.config.Interval <= 0 {
		return ErrInvalidConfig
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	t.wg.Add(1)
	go t.loop(ctx, done)

	t.logger.Debug("Periodic task started", zap.Duration("interval", t.config.Interval))
	return nil
}

// Stop cancels the loop and waits for the current run to return or ctx to expire
func (t *PeriodicTask) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	cancel()

	select {
	case <-done:
		t.logger.Debug("Periodic task stopped", zap.Int64("runs", t.runs.Load()))
		return nil
	case <-ctx.Done():
		t.logger.Warn("Periodic task stop timed out")
		return ctx.Err()
	}
}

// Wait blocks until every loop started so far has exited
func (t *PeriodicTask) Wait() {
	t.wg.Wait()
}

// IsRunning reports whether the loop is active
func (t *PeriodicTask) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isRunning
}

// Runs returns how many times the task function has been called
func (t *PeriodicTask) Runs() int64 {
	return t.runs.Load()
}

// Failures returns how many runs returned an error
func (t *PeriodicTask) Failures() int64 {
	return t.failures.Load()
}

func (t *PeriodicTask) loop(ctx context.Context, done chan struct{}) {
	defer t.wg.Done()
	defer close(done)
	defer func() {
		t.mu.Lock()
		if t.done == done {
			t.isRunning = false
		}
		t.mu.Unlock()
	}()

	if t.config.RunImmediately {
		t.run(ctx)
	}

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.run(ctx)
		}
	}
}

func (t *PeriodicTask) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx := ctx
	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	t.runs.Add(1)
	if err := t.fn(runCtx); err != nil && ctx.Err() == nil {
		t.failures.Add(1)
		t.logger.Warn("Periodic task run failed", zap.Error(err))
	}
}
