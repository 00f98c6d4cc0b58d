package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/hellcat/store/internal/application/catalog"
)

// CatalogHandler serves the public storefront catalog
type CatalogHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products *catalogapp.ProductService) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// ListProducts godoc
// @ID           listCatalogProducts
// @Summary      List products
// @Description  Filter, search, sort and paginate the account catalog. Explicit price or mythic bounds win over a range label.
// @Tags         catalog
// @Produce      json
// @Param        search       query string false "Case-insensitive match on title and description"
// @Param        rank         query string false "Rank or All"
// @Param        login_type   query string false "Login type or All"
// @Param        status       query string false "Status or All"
// @Param        price_range  query string false "Price range label"
// @Param        price_min    query int    false "Lower price bound in rupees"
// @Param        price_max    query int    false "Upper price bound in rupees"
// @Param        mythic_count query string false "Mythic count label"
// @Param        mythic_min   query int    false "Lower mythic count bound"
// @Param        mythic_max   query int    false "Upper mythic count bound"
// @Param        sort_by      query string false "default, price-low, price-high, newest, level or discount"
// @Param        page         query int    false "Page number" minimum(1)
// @Param        limit        query int    false "Page size" minimum(1) maximum(100)
// @Success      200 {object} APIResponse[catalogapp.ProductListResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /catalog/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var query catalogapp.ProductListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	resp, err := h.products.GetProducts(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, int64(resp.Total), resp.Page, resp.Limit)
}

// GetProduct godoc
// @ID           getCatalogProduct
// @Summary      Get product by ID
// @Tags         catalog
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.productID(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetFilterOptions godoc
// @ID           getCatalogFilterOptions
// @Summary      Filter bar options
// @Description  Ranks, login types, statuses, price and mythic ranges, and sort keys
// @Tags         catalog
// @Produce      json
// @Success      200 {object} APIResponse[catalogapp.FilterOptionsResponse]
// @Router       /catalog/filter-options [get]
func (h *CatalogHandler) GetFilterOptions(c *gin.Context) {
	options, err := h.products.GetFilterOptions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}
