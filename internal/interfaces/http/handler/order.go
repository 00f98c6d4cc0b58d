package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/hellcat/store/internal/application/order"
)

// IdempotencyKeyHeader lets a client retry a payment safely
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// OrderHandler serves checkout and payment
type OrderHandler struct {
	BaseHandler
	orders *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder godoc
// @ID           createOrder
// @Summary      Place an order
// @Description  Creates a pending order for an available product
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.CreateOrderRequest true "Checkout"
// @Success      201 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// GetOrder godoc
// @ID           getOrder
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" example(ORD-1700000000000)
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// ProcessPayment godoc
// @ID           processOrderPayment
// @Summary      Pay for an order
// @Description  Charges a pending order and delivers the account credentials. Replaying the same Idempotency-Key returns the original result.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id              path   string                   true  "Order ID"
// @Param        Idempotency-Key header string                   false "Client retry key"
// @Param        request         body   orderapp.PaymentRequest  false "Payment method"
// @Success      200 {object} APIResponse[orderapp.PaymentResultResponse]
// @Failure      402 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /orders/{id}/payment [post]
func (h *OrderHandler) ProcessPayment(c *gin.Context) {
	req, ok := h.bindPayment(c)
	if !ok {
		return
	}

	result, err := h.orders.ProcessPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RecentPurchases godoc
// @ID           listRecentPurchases
// @Summary      Recent purchases
// @Description  The latest completed orders with the buyer name shortened
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[[]orderapp.RecentPurchaseResponse]
// @Router       /orders/recent-purchases [get]
func (h *OrderHandler) RecentPurchases(c *gin.Context) {
	purchases, err := h.orders.GetRecentPurchases(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchases)
}

// bindPayment reads the optional payment body and the Idempotency-Key header
func (h *BaseHandler) bindPayment(c *gin.Context) (orderapp.PaymentRequest, bool) {
	var req orderapp.PaymentRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return req, false
	}

	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return req, false
	}
	return req, true
}
