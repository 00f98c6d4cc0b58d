package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderapp "github.com/hellcat/store/internal/application/order"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/infrastructure/payment"
	"github.com/hellcat/store/internal/interfaces/http/dto"
)

func orderEngine(t *testing.T, outcomes order.PaymentOutcomeSource) *gin.Engine {
	t.Helper()
	h := NewOrderHandler(newTestServices(t, outcomes).orders)
	return newTestEngine(func(r *gin.Engine) {
		r.POST("/orders", h.CreateOrder)
		r.GET("/orders/recent-purchases", h.RecentPurchases)
		r.GET("/orders/:id", h.GetOrder)
		r.POST("/orders/:id/payment", h.ProcessPayment)
	})
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	r := orderEngine(t, payment.AlwaysApprove())

	t.Run("pending order for an available product", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/orders", checkoutBody(1))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		o := decode[orderapp.OrderResponse](t, w).Data
		assert.True(t, strings.HasPrefix(o.ID, "ORD-"), o.ID)
		assert.Equal(t, int64(1), o.ProductID)
		assert.Equal(t, int64(2500), o.Amount)
		assert.Equal(t, "pending", o.Status)
		assert.Equal(t, "Ravi Teja", o.Buyer.Name)
		assert.Nil(t, o.Credentials)

		got := doRequest(r, http.MethodGet, "/orders/"+o.ID, nil)
		assert.Equal(t, http.StatusOK, got.Code)
	})

	t.Run("sold product", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/orders", checkoutBody(4))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decode[any](t, w)
		assert.Equal(t, dto.ErrCodeBusinessRule, resp.Error.Code)
		assert.Equal(t, "Product is not available for purchase", resp.Error.Message)
	})

	t.Run("unknown product", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/orders", checkoutBody(999))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Product not found", decode[any](t, w).Error.Message)
	})

	t.Run("invalid phone", func(t *testing.T) {
		body := checkoutBody(1)
		body["buyer"].(map[string]any)["phone"] = "12345"
		w := doRequest(r, http.MethodPost, "/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decode[any](t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "phone", resp.Error.Details[0].Field)
	})

	t.Run("unsupported payment method", func(t *testing.T) {
		body := checkoutBody(1)
		body["paymentMethod"] = "paypal"
		w := doRequest(r, http.MethodPost, "/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/orders", "{")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decode[any](t, w).Error.Code)
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	r := orderEngine(t, payment.AlwaysApprove())

	t.Run("seeded order", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/orders/ORD-001", nil)
		require.Equal(t, http.StatusOK, w.Code)

		o := decode[orderapp.OrderResponse](t, w).Data
		assert.Equal(t, "ORD-001", o.ID)
		assert.Equal(t, "completed", o.Status)
		assert.Equal(t, int64(1), o.ProductID)
	})

	t.Run("unknown order", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/orders/ORD-404", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Order not found", decode[any](t, w).Error.Message)
	})
}

func TestOrderHandler_ProcessPayment(t *testing.T) {
	t.Run("approved payment delivers credentials", func(t *testing.T) {
		r := orderEngine(t, payment.AlwaysApprove())

		w := doRequest(r, http.MethodPost, "/orders/ORD-002/payment", map[string]any{"paymentMethod": "razorpay"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		result := decode[orderapp.PaymentResultResponse](t, w).Data
		assert.True(t, result.Success)
		assert.Equal(t, "ORD-002", result.OrderID)
		assert.Equal(t, int64(2), result.ProductID)
		assert.True(t, strings.HasPrefix(result.PaymentID, "pay_"), result.PaymentID)
		assert.Equal(t, "Hellcat42", result.Credentials.ID)
		assert.Equal(t, "Pass7", result.Credentials.Password)
		assert.False(t, result.Replayed)

		paid := decode[orderapp.OrderResponse](t, doRequest(r, http.MethodGet, "/orders/ORD-002", nil)).Data
		assert.Equal(t, "completed", paid.Status)
		require.NotNil(t, paid.PaymentID)
		assert.Equal(t, result.PaymentID, *paid.PaymentID)
	})

	t.Run("empty body is accepted", func(t *testing.T) {
		r := orderEngine(t, payment.AlwaysApprove())

		w := doRequest(r, http.MethodPost, "/orders/ORD-005/payment", nil)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("declined payment", func(t *testing.T) {
		r := orderEngine(t, payment.AlwaysDecline())

		w := doRequest(r, http.MethodPost, "/orders/ORD-002/payment", nil)
		assert.Equal(t, http.StatusPaymentRequired, w.Code)

		resp := decode[any](t, w)
		assert.Equal(t, dto.ErrCodePaymentFailed, resp.Error.Code)
		assert.Equal(t, "Payment failed. Please try again.", resp.Error.Message)
	})

	t.Run("completed order cannot be paid again", func(t *testing.T) {
		r := orderEngine(t, payment.AlwaysApprove())

		w := doRequest(r, http.MethodPost, "/orders/ORD-001/payment", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, decode[any](t, w).Error.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		r := orderEngine(t, payment.AlwaysApprove())

		w := doRequest(r, http.MethodPost, "/orders/ORD-404/payment", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("replayed idempotency key", func(t *testing.T) {
		r := orderEngine(t, payment.AlwaysApprove())

		first := doRequest(r, http.MethodPost, "/orders/ORD-002/payment", nil, IdempotencyKeyHeader, "retry-1")
		require.Equal(t, http.StatusOK, first.Code, first.Body.String())
		second := doRequest(r, http.MethodPost, "/orders/ORD-002/payment", nil, IdempotencyKeyHeader, "retry-1")
		require.Equal(t, http.StatusOK, second.Code, second.Body.String())

		a := decode[orderapp.PaymentResultResponse](t, first).Data
		b := decode[orderapp.PaymentResultResponse](t, second).Data
		assert.False(t, a.Replayed)
		assert.True(t, b.Replayed)
		assert.Equal(t, a.PaymentID, b.PaymentID)
	})

	t.Run("oversized idempotency key", func(t *testing.T) {
		r := orderEngine(t, payment.AlwaysApprove())

		w := doRequest(r, http.MethodPost, "/orders/ORD-002/payment", nil, IdempotencyKeyHeader, strings.Repeat("k", 129))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported payment method", func(t *testing.T) {
		r := orderEngine(t, payment.AlwaysApprove())

		w := doRequest(r, http.MethodPost, "/orders/ORD-002/payment", map[string]any{"paymentMethod": "cash"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_RecentPurchases(t *testing.T) {
	r := orderEngine(t, payment.AlwaysApprove())

	w := doRequest(r, http.MethodGet, "/orders/recent-purchases", nil)
	require.Equal(t, http.StatusOK, w.Code)

	purchases := decode[[]orderapp.RecentPurchaseResponse](t, w).Data
	require.Len(t, purchases, 5)
	for _, p := range purchases {
		assert.True(t, strings.HasSuffix(p.BuyerName, "***"), p.BuyerName)
		assert.NotEmpty(t, p.ProductName)
	}
}
