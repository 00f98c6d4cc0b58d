package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hellcat/store/internal/infrastructure/scheduler"
)

// DefaultPollInterval is the live update period when none is configured
const DefaultPollInterval = 5 * time.Second

// LiveUpdates refreshes recent purchases and analytics on an interval while
// real-time updates are on
type LiveUpdates struct {
	task *scheduler.PeriodicTask
}

// NewLiveUpdates creates stopped live updates for d
func NewLiveUpdates(d *Dispatcher, interval time.Duration, logger *zap.Logger) *LiveUpdates {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	task := scheduler.NewPeriodicTask(scheduler.TaskConfig{
		Name:     "session-live-updates",
		Interval: interval,
		Timeout:  interval,
	}, func(ctx context.Context) error {
		return errors.Join(
			d.LoadRecentPurchases(ctx),
			d.LoadAnalytics(ctx),
		)
	}, logger)
	return &LiveUpdates{task: task}
}

// Start begins polling; the loop ends when ctx does or Stop is called
func (l *LiveUpdates) Start(ctx context.Context) error {
	return l.task.Start(ctx)
}

// Stop ends polling and waits for an in-flight refresh
func (l *LiveUpdates) Stop(ctx context.Context) error {
	return l.task.Stop(ctx)
}

// Running reports whether polling is active
func (l *LiveUpdates) Running() bool {
	return l.task.IsRunning()
}

// Refreshes returns how many refresh rounds have run
func (l *LiveUpdates) Refreshes() int64 {
	return l.task.Runs()
}
