package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPeriodicTask(t *testing.T) {
	t.Run("rejects invalid configuration", func(t *testing.T) {
		task := NewPeriodicTask(TaskConfig{Name: "bad"}, func(context.Context) error { return nil }, nil)
		assert.ErrorIs(t, task.Start(context.Background()), ErrInvalidConfig)

		task = NewPeriodicTask(TaskConfig{Name: "nil", Interval: time.Second}, nil, nil)
		assert.ErrorIs(t, task.Start(context.Background()), ErrNilTask)
	})

	t.Run("runs on every tick until stopped", func(t *testing.T) {
		var calls atomic.Int64
		task := NewPeriodicTask(TaskConfig{Name: "tick", Interval: 5 * time.Millisecond},
			func(context.Context) error {
				calls.Add(1)
				return nil
			}, zap.NewNop())

		require.NoError(t, task.Start(context.Background()))
		require.NoError(t, task.Start(context.Background()))
		assert.True(t, task.IsRunning())

		assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

		require.NoError(t, task.Stop(context.Background()))
		assert.False(t, task.IsRunning())
		stopped := calls.Load()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, stopped, calls.Load())
		assert.Equal(t, stopped, task.Runs())

		require.NoError(t, task.Stop(context.Background()))
	})

	t.Run("run immediately", func(t *testing.T) {
		var calls atomic.Int64
		task := NewPeriodicTask(TaskConfig{Name: "now", Interval: time.Hour, RunImmediately: true},
			func(context.Context) error {
				calls.Add(1)
				return nil
			}, nil)

		require.NoError(t, task.Start(context.Background()))
		assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
		require.NoError(t, task.Stop(context.Background()))
	})

	t.Run("parent context cancellation ends the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		task := NewPeriodicTask(TaskConfig{Name: "ctx", Interval: time.Millisecond},
			func(context.Context) error { return nil }, nil)

		require.NoError(t, task.Start(ctx))
		cancel()
		task.Wait()
		assert.False(t, task.IsRunning())

		require.NoError(t, task.Start(context.Background()))
		assert.True(t, task.IsRunning())
		require.NoError(t, task.Stop(context.Background()))
	})

	t.Run("counts failures", func(t *testing.T) {
		task := NewPeriodicTask(TaskConfig{Name: "fail", Interval: 2 * time.Millisecond},
			func(context.Context) error { return errors.New("boom") }, zap.NewNop())

		require.NoError(t, task.Start(context.Background()))
		assert.Eventually(t, func() bool { return task.Failures() >= 2 }, time.Second, time.Millisecond)
		require.NoError(t, task.Stop(context.Background()))
	})

	t.Run("stop times out on a stuck run", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{}, 1)
		task := NewPeriodicTask(TaskConfig{Name: "stuck", Interval: time.Hour, RunImmediately: true},
			func(context.Context) error {
				started <- struct{}{}
				<-release
				return nil
			}, nil)

		require.NoError(t, task.Start(context.Background()))
		<-started

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, task.Stop(ctx), context.DeadlineExceeded)

		close(release)
		task.Wait()
	})
}
