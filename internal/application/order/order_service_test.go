package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/infrastructure/cache"
	"github.com/hellcat/store/internal/infrastructure/payment"
	"github.com/hellcat/store/internal/infrastructure/persistence"
	"github.com/hellcat/store/internal/infrastructure/persistence/seed"
	"github.com/hellcat/store/internal/infrastructure/storage"
)

var fixedNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

// MockOutcomeSource is a mock implementation of PaymentOutcomeSource
type MockOutcomeSource struct {
	mock.Mock
}

func (m *MockOutcomeSource) Approve(ctx context.Context, o *order.Order) bool {
	args := m.Called(ctx, o)
	return args.Bool(0)
}

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type fixture struct {
	svc      *OrderService
	orders   *persistence.MemoryOrderRepository
	products *persistence.MemoryProductRepository
}

func newFixture(t *testing.T, outcomes order.PaymentOutcomeSource, mutate ...func(*ServiceConfig)) fixture {
	t.Helper()
	products, err := seed.Products()
	require.NoError(t, err)
	orders, err := seed.Orders(products)
	require.NoError(t, err)

	f := fixture{
		orders:   persistence.NewMemoryOrderRepository(orders...),
		products: persistence.NewMemoryProductRepository(products...),
	}
	cfg := ServiceConfig{
		Orders:      f.orders,
		Products:    f.products,
		Outcomes:    outcomes,
		Credentials: payment.StaticCredentials{ID: "Hellcat42", Password: "Pass7"},
		Clock:       func() time.Time { return fixedNow },
	}
	for _, m := range mutate {
		m(&cfg)
	}
	f.svc = NewOrderService(cfg)
	return f
}

func checkout(productID int64) CreateOrderRequest {
	return CreateOrderRequest{
		ProductID: productID,
		Buyer: BuyerRequest{
			Name:  "Ravi Teja",
			Email: "ravi@example.com",
			Phone: "98765 43210",
		},
		PaymentMethod: "razorpay",
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending order with the product snapshot", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		resp, err := f.svc.CreateOrder(ctx, checkout(1))
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprintf("ORD-%d", fixedNow.UnixMilli()), resp.ID)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, int64(2500), resp.Amount)
		assert.Equal(t, "Elite Conqueror Account", resp.Product.Title)
		assert.Nil(t, resp.PaymentID)
		assert.Nil(t, resp.Credentials)
		assert.Nil(t, resp.DeliveredAt)

		stored, err := f.orders.FindByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, stored.Status)
	})

	t.Run("same millisecond gets a suffix", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		first, err := f.svc.CreateOrder(ctx, checkout(1))
		require.NoError(t, err)
		second, err := f.svc.CreateOrder(ctx, checkout(2))
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, first.ID+"-1", second.ID)
	})

	t.Run("unavailable product is rejected", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		_, err := f.svc.CreateOrder(ctx, checkout(4))
		require.Error(t, err)
		assert.Equal(t, shared.CodeBusinessRule, domainCode(t, err))
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		_, err := f.svc.CreateOrder(ctx, checkout(999))
		require.Error(t, err)
		assert.Equal(t, "Product not found", err.Error())
	})

	t.Run("buyer is validated", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		req := checkout(1)
		req.Buyer.Email = "not-an-email"
		_, err := f.svc.CreateOrder(ctx, req)
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidation, domainCode(t, err))
		assert.Equal(t, "Please enter a valid email address", err.Error())
	})

	t.Run("unsupported payment method", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		req := checkout(1)
		req.PaymentMethod = "paypal"
		_, err := f.svc.CreateOrder(ctx, req)
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidation, domainCode(t, err))
	})
}

func TestOrderService_ProcessPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("success completes the order and sells out the product", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())
		created, err := f.svc.CreateOrder(ctx, checkout(1))
		require.NoError(t, err)

		result, err := f.svc.ProcessPayment(ctx, created.ID, PaymentRequest{})
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Regexp(t, `^pay_\d+$`, result.PaymentID)
		assert.Equal(t, "Hellcat42", result.Credentials.ID)
		assert.Equal(t, string(catalog.LoginTypeFacebook), result.Credentials.LoginType)

		stored, err := f.orders.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCompleted, stored.Status)
		require.NotNil(t, stored.DeliveredAt)
		require.NotNil(t, stored.PaymentID)
		assert.Equal(t, result.PaymentID, *stored.PaymentID)

		product, err := f.products.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, catalog.ProductStatusSoldOut, product.Status)
	})

	t.Run("missing order fails before drawing an outcome", func(t *testing.T) {
		outcomes := payment.AlwaysDecline()
		f := newFixture(t, outcomes)

		_, err := f.svc.ProcessPayment(ctx, "ORD-404", PaymentRequest{})
		require.Error(t, err)
		assert.Equal(t, shared.CodeNotFound, domainCode(t, err))
		assert.Equal(t, "Order not found", err.Error())
		assert.Zero(t, outcomes.Attempts())
	})

	t.Run("decline leaves the order pending", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysDecline())

		_, err := f.svc.ProcessPayment(ctx, "ORD-002", PaymentRequest{})
		require.Error(t, err)
		assert.Equal(t, shared.CodePaymentFailed, domainCode(t, err))
		assert.Equal(t, "Payment failed. Please try again.", err.Error())

		stored, err := f.orders.FindByID(ctx, "ORD-002")
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, stored.Status)
		assert.Nil(t, stored.Credentials)

		product, err := f.products.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, catalog.ProductStatusAvailable, product.Status)
	})

	t.Run("cancellation during the charge is not a decline", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		outcomes := new(MockOutcomeSource)
		outcomes.On("Approve", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { cancel() }).
			Return(false).Once()
		outcomes.On("Approve", mock.Anything, mock.Anything).Return(true).Once()
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		f := newFixture(t, outcomes, func(c *ServiceConfig) { c.Idempotency = store })

		_, err := f.svc.ProcessPayment(cctx, "ORD-002", PaymentRequest{IdempotencyKey: "key-c"})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		var de *shared.DomainError
		assert.False(t, errors.As(err, &de))

		stored, err := f.orders.FindByID(ctx, "ORD-002")
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, stored.Status)

		result, err := f.svc.ProcessPayment(ctx, "ORD-002", PaymentRequest{IdempotencyKey: "key-c"})
		require.NoError(t, err)
		assert.False(t, result.Replayed)
		outcomes.AssertExpectations(t)
	})

	t.Run("completed order cannot be paid again", func(t *testing.T) {
		outcomes := payment.AlwaysApprove()
		f := newFixture(t, outcomes)

		_, err := f.svc.ProcessPayment(ctx, "ORD-001", PaymentRequest{})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidState, domainCode(t, err))
		assert.Zero(t, outcomes.Attempts())
	})

	t.Run("repeated idempotency key replays the first result", func(t *testing.T) {
		outcomes := payment.AlwaysApprove()
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		f := newFixture(t, outcomes, func(c *ServiceConfig) { c.Idempotency = store })

		first, err := f.svc.ProcessPayment(ctx, "ORD-002", PaymentRequest{IdempotencyKey: "key-1"})
		require.NoError(t, err)
		second, err := f.svc.ProcessPayment(ctx, "ORD-002", PaymentRequest{IdempotencyKey: "key-1"})
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.PaymentID, second.PaymentID)
		assert.Equal(t, first.Credentials, second.Credentials)
		assert.Equal(t, int64(1), outcomes.Attempts())
	})

	t.Run("key reused for another order is a duplicate request", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		f := newFixture(t, payment.AlwaysApprove(), func(c *ServiceConfig) { c.Idempotency = store })

		_, err := f.svc.ProcessPayment(ctx, "ORD-002", PaymentRequest{IdempotencyKey: "key-2"})
		require.NoError(t, err)

		_, err = f.svc.ProcessPayment(ctx, "ORD-005", PaymentRequest{IdempotencyKey: "key-2"})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
	})

	t.Run("declined attempt frees the key for a retry", func(t *testing.T) {
		outcomes := new(MockOutcomeSource)
		outcomes.On("Approve", mock.Anything, mock.Anything).Return(false).Once()
		outcomes.On("Approve", mock.Anything, mock.Anything).Return(true).Once()
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		f := newFixture(t, outcomes, func(c *ServiceConfig) { c.Idempotency = store })

		_, err := f.svc.ProcessPayment(ctx, "ORD-013", PaymentRequest{IdempotencyKey: "key-3"})
		require.Error(t, err)

		result, err := f.svc.ProcessPayment(ctx, "ORD-013", PaymentRequest{IdempotencyKey: "key-3"})
		require.NoError(t, err)
		assert.False(t, result.Replayed)
		outcomes.AssertExpectations(t)
	})

	t.Run("save failure is returned", func(t *testing.T) {
		products, err := seed.Products()
		require.NoError(t, err)
		p := products[0]
		o, err := order.NewOrder("ORD-1", &p, order.Buyer{Name: "A B", Email: "a@b.co", Phone: "9876543210"}, fixedNow)
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		repo.On("FindByID", mock.Anything, "ORD-1").Return(o, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		svc := NewOrderService(ServiceConfig{
			Orders:      repo,
			Products:    persistence.NewMemoryProductRepository(products...),
			Outcomes:    payment.AlwaysApprove(),
			Credentials: payment.StaticCredentials{ID: "x", Password: "y"},
		})
		_, err = svc.ProcessPayment(ctx, "ORD-1", PaymentRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		repo.AssertExpectations(t)
	})
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling a pending order leaves deliveredAt empty", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		resp, err := f.svc.UpdateOrderStatus(ctx, "ORD-002", UpdateOrderStatusRequest{Status: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Nil(t, resp.DeliveredAt)
	})

	t.Run("permissive policy allows reopening and stamps delivery", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		resp, err := f.svc.UpdateOrderStatus(ctx, "ORD-006", UpdateOrderStatusRequest{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		require.NotNil(t, resp.DeliveredAt)
		assert.True(t, resp.DeliveredAt.Equal(fixedNow))
	})

	t.Run("strict policy rejects terminal changes", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove(), func(c *ServiceConfig) {
			c.Transitions = order.NewTransitionPolicy(true)
		})

		_, err := f.svc.UpdateOrderStatus(ctx, "ORD-006", UpdateOrderStatusRequest{Status: "completed"})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidState, domainCode(t, err))

		resp, err := f.svc.UpdateOrderStatus(ctx, "ORD-002", UpdateOrderStatusRequest{Status: "processing"})
		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		_, err := f.svc.UpdateOrderStatus(ctx, "ORD-002", UpdateOrderStatusRequest{Status: "shipped"})
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidation, domainCode(t, err))
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		_, err := f.svc.UpdateOrderStatus(ctx, "ORD-404", UpdateOrderStatusRequest{Status: "cancelled"})
		require.Error(t, err)
		assert.Equal(t, "Order not found", err.Error())
	})
}

func TestOrderService_GetOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, payment.AlwaysApprove())

	t.Run("newest first", func(t *testing.T) {
		resp, err := f.svc.GetOrders(ctx, OrderListQuery{})
		require.NoError(t, err)
		require.Equal(t, 15, resp.Total)
		assert.Equal(t, "ORD-015", resp.Orders[0].ID)
		for i := 1; i < len(resp.Orders); i++ {
			assert.False(t, resp.Orders[i].CreatedAt.After(resp.Orders[i-1].CreatedAt))
		}
	})

	t.Run("status filter", func(t *testing.T) {
		resp, err := f.svc.GetOrders(ctx, OrderListQuery{Status: "pending"})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Total)
		for _, o := range resp.Orders {
			assert.Equal(t, "pending", o.Status)
		}

		all, err := f.svc.GetOrders(ctx, OrderListQuery{Status: "all"})
		require.NoError(t, err)
		assert.Equal(t, 15, all.Total)
	})

	t.Run("search matches id, buyer and email", func(t *testing.T) {
		resp, err := f.svc.GetOrders(ctx, OrderListQuery{Search: "ord-01"})
		require.NoError(t, err)
		assert.Equal(t, 6, resp.Total)

		resp, err = f.svc.GetOrders(ctx, OrderListQuery{Search: "GMAIL"})
		require.NoError(t, err)
		require.NotZero(t, resp.Total)
		for _, o := range resp.Orders {
			assert.Contains(t, strings.ToLower(o.Buyer.Email), "gmail")
		}
	})

	t.Run("invalid status filter", func(t *testing.T) {
		_, err := f.svc.GetOrders(ctx, OrderListQuery{Status: "lost"})
		require.Error(t, err)
	})
}

func TestOrderService_GetOrder(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove())

	resp, err := f.svc.GetOrder(context.Background(), "ORD-001")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", resp.Buyer.Name)
	require.NotNil(t, resp.Credentials)
	assert.Equal(t, "Hellcat123456", resp.Credentials.ID)

	_, err = f.svc.GetOrder(context.Background(), "ORD-999")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestOrderService_ExportOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("rows follow the order list", func(t *testing.T) {
		f := newFixture(t, payment.AlwaysApprove())

		rows, err := f.svc.ExportOrders(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 15)
		assert.Equal(t, "ORD-015", rows[0].OrderID)
		assert.Equal(t, "James Wilson", rows[0].BuyerName)
		assert.Equal(t, "2024-01-20T11:45:00Z", rows[0].CreatedAt)
	})

	t.Run("csv is archived when an archiver is configured", func(t *testing.T) {
		archive := storage.NewMemoryArchive()
		f := newFixture(t, payment.AlwaysApprove(), func(c *ServiceConfig) { c.Archiver = archive })

		file, err := f.svc.ExportOrdersCSV(ctx)
		require.NoError(t, err)

		assert.Equal(t, "bgmi-orders-2024-02-01.csv", file.Filename)
		assert.Equal(t, 15, file.Rows)
		assert.Equal(t, "memory://bgmi-orders-2024-02-01.csv", file.Location)

		stored, ok := archive.Get(file.Filename)
		require.True(t, ok)
		assert.Equal(t, file.Content, stored)
	})
}

func TestRenderCSV(t *testing.T) {
	t.Run("quotes every field", func(t *testing.T) {
		out := RenderCSV([]ExportRow{{
			OrderID:   "ORD-1",
			Product:   `The "Best" ID`,
			BuyerName: "A, B",
			Email:     "a@b.co",
			Phone:     "9876543210",
			Amount:    1500,
			Status:    "pending",
			CreatedAt: "2024-01-01T00:00:00Z",
		}})

		lines := strings.Split(string(out), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, `"Order ID","Product","Buyer Name","Email","Phone","Amount","Status","Created At"`, lines[0])
		assert.Equal(t, `"ORD-1","The ""Best"" ID","A, B","a@b.co","9876543210","1500","pending","2024-01-01T00:00:00Z"`, lines[1])
	})

	t.Run("empty export", func(t *testing.T) {
		assert.Empty(t, RenderCSV(nil))
	})
}

func TestOrderService_GetRecentPurchases(t *testing.T) {
	f := newFixture(t, payment.AlwaysApprove())

	recent, err := f.svc.GetRecentPurchases(context.Background())
	require.NoError(t, err)

	require.Len(t, recent, 5)
	assert.Equal(t, "ORD-001", recent[0].ID)
	assert.Equal(t, "John***", recent[0].BuyerName)
	assert.Equal(t, "Elite Conqueror Account", recent[0].ProductName)
	for _, p := range recent {
		assert.True(t, strings.HasSuffix(p.BuyerName, "***"))
	}
}
