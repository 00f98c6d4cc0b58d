package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/hellcat/store/internal/application/catalog"
	orderapp "github.com/hellcat/store/internal/application/order"
	"github.com/hellcat/store/internal/application/session"
	"github.com/hellcat/store/internal/interfaces/http/dto"
)

// SessionActionResponse is the outcome of a session command together with
// the session state after it
type SessionActionResponse struct {
	Result  any             `json:"result"`
	Session SessionResponse `json:"session"`
}

// command runs fn against the :id session and answers with its result and
// the updated state
func (h *SessionHandler) command(c *gin.Context, status int, fn func(*session.Session) (any, error)) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	result, err := fn(s)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(status, dto.NewSuccessResponse(SessionActionResponse{
		Result:  result,
		Session: toSessionResponse(s),
	}))
}

// ListOrders godoc
// @ID           loadSessionOrders
// @Summary      Load the admin order list into a session
// @Tags         sessions
// @Produce      json
// @Param        id     path  string true  "Session ID"
// @Param        search query string false "Search term"
// @Param        status query string false "Order status or All"
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/orders [get]
func (h *SessionHandler) ListOrders(c *gin.Context) {
	var query orderapp.OrderListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	h.apply(c, func(s *session.Session) error {
		return s.Dispatcher().LoadOrders(c.Request.Context(), query)
	})
}

// CreateOrder godoc
// @ID           createSessionOrder
// @Summary      Place an order from a session
// @Description  The new order is prepended to the session's order list
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Session ID"
// @Param        request body orderapp.CreateOrderRequest true "Checkout"
// @Success      201 {object} APIResponse[SessionActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /sessions/{id}/orders [post]
func (h *SessionHandler) CreateOrder(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.command(c, http.StatusCreated, func(s *session.Session) (any, error) {
		return s.Dispatcher().CreateOrder(c.Request.Context(), req)
	})
}

// ProcessPayment godoc
// @ID           processSessionPayment
// @Summary      Pay for an order from a session
// @Description  On success the order is refreshed in the session and its product is marked Sold Out
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id              path   string                  true  "Session ID"
// @Param        orderId         path   string                  true  "Order ID"
// @Param        Idempotency-Key header string                  false "Client retry key"
// @Param        request         body   orderapp.PaymentRequest false "Payment method"
// @Success      200 {object} APIResponse[SessionActionResponse]
// @Failure      402 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /sessions/{id}/orders/{orderId}/payment [post]
func (h *SessionHandler) ProcessPayment(c *gin.Context) {
	req, ok := h.bindPayment(c)
	if !ok {
		return
	}
	h.command(c, http.StatusOK, func(s *session.Session) (any, error) {
		return s.Dispatcher().ProcessPayment(c.Request.Context(), c.Param("orderId"), req)
	})
}

// UpdateOrderStatus godoc
// @ID           updateSessionOrderStatus
// @Summary      Change an order's status from a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id      path string                            true "Session ID"
// @Param        orderId path string                            true "Order ID"
// @Param        request body orderapp.UpdateOrderStatusRequest true "New status"
// @Success      200 {object} APIResponse[SessionActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/orders/{orderId}/status [patch]
func (h *SessionHandler) UpdateOrderStatus(c *gin.Context) {
	var req orderapp.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.command(c, http.StatusOK, func(s *session.Session) (any, error) {
		return s.Dispatcher().UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), req)
	})
}

// AddProduct godoc
// @ID           addSessionProduct
// @Summary      List a new account from a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Session ID"
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[SessionActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/products [post]
func (h *SessionHandler) AddProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.command(c, http.StatusCreated, func(s *session.Session) (any, error) {
		return s.Dispatcher().AddProduct(c.Request.Context(), req)
	})
}

// UpdateProduct godoc
// @ID           updateSessionProduct
// @Summary      Edit a product from a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id        path string                          true "Session ID"
// @Param        productId path int                             true "Product ID"
// @Param        request   body catalogapp.UpdateProductRequest true "Changes"
// @Success      200 {object} APIResponse[SessionActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/products/{productId} [put]
func (h *SessionHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.productID(c, "productId")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.command(c, http.StatusOK, func(s *session.Session) (any, error) {
		return s.Dispatcher().UpdateProduct(c.Request.Context(), id, req)
	})
}

// DeleteProduct godoc
// @ID           deleteSessionProduct
// @Summary      Remove a product from a session
// @Tags         sessions
// @Produce      json
// @Param        id        path string true "Session ID"
// @Param        productId path int    true "Product ID"
// @Success      200 {object} APIResponse[SessionActionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/products/{productId} [delete]
func (h *SessionHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.productID(c, "productId")
	if !ok {
		return
	}
	h.command(c, http.StatusOK, func(s *session.Session) (any, error) {
		if err := s.Dispatcher().DeleteProduct(c.Request.Context(), id); err != nil {
			return nil, err
		}
		return catalogapp.DeleteProductResponse{Success: true}, nil
	})
}
