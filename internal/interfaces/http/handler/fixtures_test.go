package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hellcat/store/internal/application/analytics"
	catalogapp "github.com/hellcat/store/internal/application/catalog"
	orderapp "github.com/hellcat/store/internal/application/order"
	"github.com/hellcat/store/internal/application/session"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/infrastructure/cache"
	"github.com/hellcat/store/internal/infrastructure/payment"
	"github.com/hellcat/store/internal/infrastructure/persistence"
	"github.com/hellcat/store/internal/infrastructure/persistence/seed"
	"github.com/hellcat/store/internal/interfaces/http/dto"
	"github.com/hellcat/store/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// envelope decodes the standard response with typed data
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

type testServices struct {
	catalog   *catalogapp.ProductService
	orders    *orderapp.OrderService
	analytics *analytics.AnalyticsService
	sessions  *session.Registry
}

// newTestServices wires the real services over the seed data
func newTestServices(t *testing.T, outcomes order.PaymentOutcomeSource) testServices {
	t.Helper()
	seedProducts, err := seed.Products()
	require.NoError(t, err)
	seedOrders, err := seed.Orders(seedProducts)
	require.NoError(t, err)

	productRepo := persistence.NewMemoryProductRepository(seedProducts...)
	orderRepo := persistence.NewMemoryOrderRepository(seedOrders...)

	idempotency := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = idempotency.Close() })

	svc := testServices{
		catalog: catalogapp.NewProductService(catalogapp.ProductServiceConfig{Repo: productRepo}),
		orders: orderapp.NewOrderService(orderapp.ServiceConfig{
			Orders:      orderRepo,
			Products:    productRepo,
			Outcomes:    outcomes,
			Credentials: payment.StaticCredentials{ID: "Hellcat42", Password: "Pass7"},
			Idempotency: idempotency,
		}),
		analytics: analytics.NewAnalyticsService(analytics.ServiceConfig{Orders: orderRepo}),
	}
	svc.sessions = session.NewRegistry(session.RegistryConfig{
		Catalog:       svc.catalog,
		Orders:        svc.orders,
		Analytics:     svc.analytics,
		PollInterval:  time.Hour,
		SweepInterval: time.Hour,
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = svc.sessions.Shutdown(ctx)
	})
	return svc
}

// newTestEngine returns an engine with the request id middleware and the
// routes added by register
func newTestEngine(register func(r *gin.Engine)) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	register(r)
	return r
}

func doRequest(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var resp envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func checkoutBody(productID int64) map[string]any {
	return map[string]any{
		"productId": productID,
		"buyer": map[string]any{
			"name":  "Ravi Teja",
			"email": "ravi@example.com",
			"phone": "9876543210",
		},
		"paymentMethod": "razorpay",
	}
}
