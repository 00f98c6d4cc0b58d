package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when a task is configured without a positive interval
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrNilTask is returned when a task has no function to run
	ErrNilTask = errors.New("task function is nil")
)
