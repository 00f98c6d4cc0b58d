package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/infrastructure/logger"
	"github.com/hellcat/store/internal/infrastructure/metrics"
	"github.com/hellcat/store/internal/infrastructure/scheduler"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = shared.NewDomainError(shared.CodeNotFound, "Session not found")

const (
	defaultIdleTimeout   = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// RegistryConfig holds the dependencies shared by every session
type RegistryConfig struct {
	Catalog       CatalogAPI
	Orders        OrdersAPI
	Analytics     AnalyticsAPI
	PageSize      int
	PollInterval  time.Duration
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	Metrics       *metrics.Metrics
	Clock         func() time.Time
	Logger        *zap.Logger
}

// Registry owns the open sessions and expires idle ones
type Registry struct {
	cfg    RegistryConfig
	now    func() time.Time
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	base     context.Context

	sweeper *scheduler.PeriodicTask
}

// NewRegistry creates an empty registry. Sessions created before Start
// live under context.Background.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	r := &Registry{
		cfg:      cfg,
		now:      cfg.Clock,
		logger:   cfg.Logger,
		sessions: make(map[string]*Session),
		base:     context.Background(),
	}
	if r.now == nil {
		r.now = time.Now
	}
	r.sweeper = scheduler.NewPeriodicTask(scheduler.TaskConfig{
		Name:     "session-idle-sweep",
		Interval: cfg.SweepInterval,
	}, func(context.Context) error {
		r.ExpireIdle()
		return nil
	}, cfg.Logger)
	return r
}

// Start ties new sessions to ctx and begins the idle sweep
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	r.base = ctx
	r.mu.Unlock()
	return r.sweeper.Start(ctx)
}

// Create opens a session and starts its live updates
func (r *Registry) Create(ctx context.Context) *Session {
	id := uuid.New().String()
	_, log := logger.WithSessionID(ctx, r.logger, id)

	d := NewDispatcher(DispatcherConfig{
		Catalog:   r.cfg.Catalog,
		Orders:    r.cfg.Orders,
		Analytics: r.cfg.Analytics,
		PageSize:  r.cfg.PageSize,
		Logger:    log,
	})

	r.mu.Lock()
	s := newSession(r.base, id, d, r.cfg.PollInterval, r.now(), log)
	r.sessions[id] = s
	r.mu.Unlock()

	s.startLive()
	r.cfg.Metrics.SessionOpened()
	log.Info("Session opened")
	return s
}

// Get returns an open session and marks it active
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Close closes and forgets a session
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	r.closeSession(s, "closed")
	return nil
}

// Len returns the number of open sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ExpireIdle closes sessions unused for longer than the idle timeout and
// returns how many it closed
func (r *Registry) ExpireIdle() int {
	now := r.now()

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idleSince(now) > r.cfg.IdleTimeout {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		r.closeSession(s, "expired")
	}
	return len(expired)
}

// Shutdown stops the sweep and closes every session
func (r *Registry) Shutdown(ctx context.Context) error {
	err := r.sweeper.Stop(ctx)

	r.mu.Lock()
	open := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		open = append(open, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range open {
		r.closeSession(s, "shutdown")
	}
	return err
}

func (r *Registry) closeSession(s *Session, reason string) {
	s.Close()
	r.cfg.Metrics.SessionClosed()
	s.logger.Info("Session closed", zap.String("reason", reason))
}
