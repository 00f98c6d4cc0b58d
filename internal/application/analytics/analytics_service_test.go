package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/infrastructure/cache"
)

var now = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindCompleted(ctx context.Context, limit int) ([]order.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func product(id int64, title string, price int64) catalog.Product {
	return catalog.Product{
		ID:        id,
		Title:     title,
		Price:     price,
		Rank:      catalog.RankAce,
		LoginType: catalog.LoginTypeGoogle,
		Status:    catalog.ProductStatusAvailable,
	}
}

func placed(id string, p catalog.Product, status order.Status, createdAt time.Time) order.Order {
	return order.Order{
		ID:        id,
		ProductID: p.ID,
		Product:   p,
		Amount:    p.Price,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func sampleOrders() []order.Order {
	a := product(1, "Alpha", 1000)
	b := product(2, "Bravo", 3000)
	c := product(3, "Charlie", 1500)
	return []order.Order{
		placed("ORD-1", a, order.StatusCompleted, now.Add(-time.Hour)),
		placed("ORD-2", b, order.StatusCompleted, now.AddDate(0, 0, -10)),
		placed("ORD-3", a, order.StatusCompleted, now.AddDate(0, 0, -2)),
		placed("ORD-4", c, order.StatusPending, now),
		placed("ORD-5", c, order.StatusCancelled, now),
		placed("ORD-6", a, order.StatusCompleted, now.AddDate(0, 0, -7)),
	}
}

func TestCompute(t *testing.T) {
	t.Run("aggregates completed orders", func(t *testing.T) {
		resp := Compute(sampleOrders(), now, 7, 5)

		assert.Equal(t, 6, resp.TotalOrders)
		assert.Equal(t, 4, resp.CompletedOrders)
		assert.Equal(t, 1, resp.PendingOrders)
		assert.Equal(t, int64(6000), resp.TotalRevenue)
		assert.Equal(t, "₹6,000", resp.TotalRevenueDisplay)
	})

	t.Run("top products by revenue", func(t *testing.T) {
		resp := Compute(sampleOrders(), now, 7, 5)

		require.Len(t, resp.TopProducts, 2)
		assert.Equal(t, "Alpha", resp.TopProducts[0].Product.Title)
		assert.Equal(t, 3, resp.TopProducts[0].Sales)
		assert.Equal(t, int64(3000), resp.TopProducts[0].Revenue)
		assert.Equal(t, "Bravo", resp.TopProducts[1].Product.Title)
	})

	t.Run("revenue ties go to the lower product id", func(t *testing.T) {
		resp := Compute(sampleOrders(), now, 7, 5)
		assert.Equal(t, int64(3000), resp.TopProducts[1].Revenue)
		assert.Equal(t, int64(1), resp.TopProducts[0].Product.ID)

		late := product(9, "Late Listing", 2000)
		early := product(4, "Early Listing", 2000)
		resp = Compute([]order.Order{
			placed("ORD-20", late, order.StatusCompleted, now),
			placed("ORD-19", early, order.StatusCompleted, now.Add(-time.Hour)),
		}, now, 7, 5)
		require.Len(t, resp.TopProducts, 2)
		assert.Equal(t, int64(4), resp.TopProducts[0].Product.ID)
		assert.Equal(t, int64(9), resp.TopProducts[1].Product.ID)
	})

	t.Run("top n is capped", func(t *testing.T) {
		resp := Compute(sampleOrders(), now, 7, 1)
		assert.Len(t, resp.TopProducts, 1)
	})

	t.Run("recent window is inclusive", func(t *testing.T) {
		resp := Compute(sampleOrders(), now, 7, 5)

		require.Len(t, resp.RecentSales, 3)
		assert.Equal(t, "Alpha", resp.RecentSales[0].Product)
		assert.Equal(t, now.AddDate(0, 0, -7), resp.RecentSales[2].Date)
	})

	t.Run("no orders", func(t *testing.T) {
		resp := Compute(nil, now, 7, 5)
		assert.Zero(t, resp.TotalRevenue)
		assert.NotNil(t, resp.TopProducts)
		assert.NotNil(t, resp.RecentSales)
	})
}

func TestAnalyticsService_GetAnalytics(t *testing.T) {
	ctx := context.Background()

	t.Run("caches the snapshot until an order event arrives", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindAll", mock.Anything).Return(sampleOrders(), nil).Twice()

		svc := NewAnalyticsService(ServiceConfig{
			Orders:   repo,
			Cache:    cache.NewMemoryStore(),
			CacheTTL: time.Minute,
			Clock:    func() time.Time { return now },
		})

		first, err := svc.GetAnalytics(ctx)
		require.NoError(t, err)
		second, err := svc.GetAnalytics(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.TotalRevenue, second.TotalRevenue)
		assert.Equal(t, first.TopProducts[0].Product.Title, second.TopProducts[0].Product.Title)
		repo.AssertNumberOfCalls(t, "FindAll", 1)

		paid := order.NewOrderPaidEvent(&order.Order{ID: "ORD-9", ProductID: 1, Amount: 1000})
		require.NoError(t, svc.Handle(ctx, paid))

		_, err = svc.GetAnalytics(ctx)
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "FindAll", 2)
	})

	t.Run("without a cache every call recomputes", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindAll", mock.Anything).Return(sampleOrders(), nil)

		svc := NewAnalyticsService(ServiceConfig{Orders: repo, Clock: func() time.Time { return now }})
		for range 3 {
			_, err := svc.GetAnalytics(ctx)
			require.NoError(t, err)
		}
		repo.AssertNumberOfCalls(t, "FindAll", 3)
		assert.NoError(t, svc.Invalidate(ctx))
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindAll", mock.Anything).Return(nil, errors.New("timeout"))

		svc := NewAnalyticsService(ServiceConfig{Orders: repo})
		_, err := svc.GetAnalytics(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})

	t.Run("subscribes to order changes", func(t *testing.T) {
		svc := NewAnalyticsService(ServiceConfig{})
		assert.Contains(t, svc.EventTypes(), order.EventTypeOrderPaid)
		assert.Contains(t, svc.EventTypes(), order.EventTypeOrderStatusChanged)
	})
}
