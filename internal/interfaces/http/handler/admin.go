package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hellcat/store/internal/application/analytics"
	catalogapp "github.com/hellcat/store/internal/application/catalog"
	orderapp "github.com/hellcat/store/internal/application/order"
)

// ExportLocationHeader names where a CSV export was archived
const ExportLocationHeader = "X-Export-Location"

// AdminHandler serves the admin dashboard: orders, inventory and analytics
type AdminHandler struct {
	BaseHandler
	products  *catalogapp.ProductService
	orders    *orderapp.OrderService
	analytics *analytics.AnalyticsService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(products *catalogapp.ProductService, orders *orderapp.OrderService, analytics *analytics.AnalyticsService) *AdminHandler {
	return &AdminHandler{
		products:  products,
		orders:    orders,
		analytics: analytics,
	}
}

// ListOrders godoc
// @ID           listAdminOrders
// @Summary      List orders
// @Description  Newest first, filtered by a search over id, buyer and product and by status
// @Tags         admin
// @Produce      json
// @Param        search query string false "Search term"
// @Param        status query string false "Order status or All"
// @Success      200 {object} APIResponse[orderapp.OrderListResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var query orderapp.OrderListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	resp, err := h.orders.GetOrders(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateOrderStatus godoc
// @ID           updateAdminOrderStatus
// @Summary      Change an order's status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path string                            true "Order ID"
// @Param        request body orderapp.UpdateOrderStatusRequest true "New status"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /admin/orders/{id}/status [patch]
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req orderapp.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// ExportOrders godoc
// @ID           exportAdminOrders
// @Summary      Export orders as rows
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[[]orderapp.ExportRow]
// @Router       /admin/orders/export [get]
func (h *AdminHandler) ExportOrders(c *gin.Context) {
	rows, err := h.orders.ExportOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// ExportOrdersCSV godoc
// @ID           exportAdminOrdersCSV
// @Summary      Download orders as CSV
// @Description  Every field is quoted. The file is also archived when an archive is configured.
// @Tags         admin
// @Produce      text/csv
// @Success      200 {file} file
// @Router       /admin/orders/export.csv [get]
func (h *AdminHandler) ExportOrdersCSV(c *gin.Context) {
	file, err := h.orders.ExportOrdersCSV(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	if file.Location != "" {
		c.Header(ExportLocationHeader, file.Location)
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", file.Content)
}

// CreateProduct godoc
// @ID           createAdminProduct
// @Summary      List a new account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /admin/products [post]
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.products.AddProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// UpdateProduct godoc
// @ID           updateAdminProduct
// @Summary      Edit a product
// @Description  Only the supplied fields change
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path int                              true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest  true "Changes"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /admin/products/{id} [put]
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.productID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.products.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// DeleteProduct godoc
// @ID           deleteAdminProduct
// @Summary      Remove a product
// @Tags         admin
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.DeleteProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /admin/products/{id} [delete]
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.productID(c, "id")
	if !ok {
		return
	}

	resp, err := h.products.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetAnalytics godoc
// @ID           getAdminAnalytics
// @Summary      Dashboard analytics
// @Description  Revenue, order counts, top products and recent sales
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[analytics.AnalyticsResponse]
// @Router       /admin/analytics [get]
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	snapshot, err := h.analytics.GetAnalytics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}
