package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const stopTimeout = 5 * time.Second

// Session is one visitor's view state together with its live updates.
// Live updates run while real-time updates are on and never outlive Close.
type Session struct {
	id         string
	dispatcher *Dispatcher
	live       *LiveUpdates
	logger     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	lastSeen atomic.Int64
	closed   atomic.Bool
	liveMu   sync.Mutex
}

func newSession(parent context.Context, id string, d *Dispatcher, poll time.Duration, now time.Time, logger *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		id:         id,
		dispatcher: d,
		live:       NewLiveUpdates(d, poll, logger),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
	s.lastSeen.Store(now.UnixNano())
	d.OnRealTimeChange(s.toggleLive)
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Dispatcher returns the session's action creators
func (s *Session) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// State returns a copy of the current view state
func (s *Session) State() State {
	return s.dispatcher.Store().State()
}

// Subscribe streams state changes until the returned func is called or
// the session closes
func (s *Session) Subscribe() (<-chan Change, func()) {
	return s.dispatcher.Store().Subscribe(0)
}

// Context ends when the session is closed
func (s *Session) Context() context.Context {
	return s.ctx
}

// LiveUpdatesRunning reports whether the live update loop is active
func (s *Session) LiveUpdatesRunning() bool {
	return s.live.Running()
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	return s.closed.Load()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func (s *Session) startLive() {
	s.toggleLive(s.State().RealTimeUpdates)
}

func (s *Session) toggleLive(enabled bool) {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()

	if enabled && !s.closed.Load() {
		if err := s.live.Start(s.ctx); err != nil {
			s.logger.Warn("Failed to start live updates", zap.Error(err))
		}
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := s.live.Stop(ctx); err != nil {
		s.logger.Warn("Live updates did not stop in time", zap.Error(err))
	}
}

// Close stops live updates, ends every stream and cancels the session context
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.toggleLive(false)
	s.cancel()
	s.dispatcher.Store().Close()
}
