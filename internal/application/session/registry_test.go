package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/infrastructure/metrics"
	"github.com/hellcat/store/internal/infrastructure/payment"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRegistry(t *testing.T, clock *manualClock) *Registry {
	t.Helper()
	svc := newServices(t, payment.AlwaysApprove())
	r := NewRegistry(RegistryConfig{
		Catalog:      svc.catalog,
		Orders:       svc.orders,
		Analytics:    svc.analytics,
		PollInterval: 10 * time.Millisecond,
		IdleTimeout:  time.Minute,
		Metrics:      metrics.New("test"),
		Clock:        clock.Now,
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = r.Shutdown(ctx)
	})
	return r
}

func TestRegistry_Lifecycle(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)}

	t.Run("create get close", func(t *testing.T) {
		r := newTestRegistry(t, clock)

		s := r.Create(ctx)
		require.NotEmpty(t, s.ID())
		assert.Equal(t, 1, r.Len())

		got, err := r.Get(s.ID())
		require.NoError(t, err)
		assert.Same(t, s, got)

		require.NoError(t, r.Close(s.ID()))
		assert.True(t, s.Closed())
		assert.False(t, s.LiveUpdatesRunning())
		assert.Error(t, s.Context().Err())

		_, err = r.Get(s.ID())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		r := newTestRegistry(t, clock)

		_, err := r.Get("missing")
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeNotFound, de.Code)
		assert.Equal(t, "Session not found", de.Message)
		assert.ErrorIs(t, r.Close("missing"), ErrSessionNotFound)
	})

	t.Run("sessions get distinct ids", func(t *testing.T) {
		r := newTestRegistry(t, clock)
		assert.NotEqual(t, r.Create(ctx).ID(), r.Create(ctx).ID())
	})
}

func TestRegistry_LiveUpdates(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)}

	t.Run("refreshes while real-time updates are on", func(t *testing.T) {
		r := newTestRegistry(t, clock)
		s := r.Create(ctx)
		require.True(t, s.LiveUpdatesRunning())

		assert.Eventually(t, func() bool {
			st := s.State()
			return len(st.RecentPurchases) == 5 && st.Analytics.TotalOrders > 0
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("turning real-time updates off stops the loop", func(t *testing.T) {
		r := newTestRegistry(t, clock)
		s := r.Create(ctx)

		s.Dispatcher().SetRealTimeUpdates(false)
		assert.False(t, s.LiveUpdatesRunning())
		assert.False(t, s.State().RealTimeUpdates)

		s.Dispatcher().SetRealTimeUpdates(true)
		assert.True(t, s.LiveUpdatesRunning())
	})

	t.Run("a closed session cannot restart live updates", func(t *testing.T) {
		r := newTestRegistry(t, clock)
		s := r.Create(ctx)
		require.NoError(t, r.Close(s.ID()))

		s.Dispatcher().SetRealTimeUpdates(true)
		assert.False(t, s.LiveUpdatesRunning())
	})
}

func TestRegistry_ExpireIdle(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)}
	r := newTestRegistry(t, clock)

	idle := r.Create(ctx)
	active := r.Create(ctx)

	clock.Advance(45 * time.Second)
	_, err := r.Get(active.ID())
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, r.ExpireIdle())

	assert.True(t, idle.Closed())
	assert.False(t, active.Closed())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := &manualClock{now: time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)}
	r := newTestRegistry(t, clock)
	require.NoError(t, r.Start(ctx))

	a := r.Create(ctx)
	b := r.Create(ctx)
	changes, _ := b.Subscribe()

	require.NoError(t, r.Shutdown(ctx))
	assert.Zero(t, r.Len())
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())

	for range changes {
	}
}
