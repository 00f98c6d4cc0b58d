package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/hellcat/store/internal/application/catalog"
	"github.com/hellcat/store/internal/infrastructure/payment"
	"github.com/hellcat/store/internal/interfaces/http/dto"
)

func catalogEngine(t *testing.T) *gin.Engine {
	t.Helper()
	h := NewCatalogHandler(newTestServices(t, payment.AlwaysApprove()).catalog)
	return newTestEngine(func(r *gin.Engine) {
		r.GET("/catalog/products", h.ListProducts)
		r.GET("/catalog/products/:id", h.GetProduct)
		r.GET("/catalog/filter-options", h.GetFilterOptions)
	})
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	r := catalogEngine(t)

	t.Run("whole catalog", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/catalog/products", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[catalogapp.ProductListResponse](t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, 10, resp.Data.Total)
		assert.Len(t, resp.Data.Products, 10)
		assert.Equal(t, int64(1), resp.Data.Products[0].ID)
		if assert.NotNil(t, resp.Meta) {
			assert.Equal(t, int64(10), resp.Meta.Total)
			assert.Equal(t, 1, resp.Meta.Page)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/catalog/products?status=Available", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[catalogapp.ProductListResponse](t, w)
		assert.Equal(t, 8, resp.Data.Total)
		for _, p := range resp.Data.Products {
			assert.Equal(t, "Available", p.Status)
		}
	})

	t.Run("price range label", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/catalog/products?price_range="+url.QueryEscape("₹1000 - ₹2000"), nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[catalogapp.ProductListResponse](t, w)
		var prices []int64
		for _, p := range resp.Data.Products {
			prices = append(prices, p.Price)
		}
		assert.Equal(t, []int64{1800, 1200, 1500}, prices)
	})

	t.Run("price low to high", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/catalog/products?sort_by=price-low", nil)
		require.Equal(t, http.StatusOK, w.Code)

		products := decode[catalogapp.ProductListResponse](t, w).Data.Products
		require.Len(t, products, 10)
		assert.Equal(t, int64(600), products[0].Price)
		assert.Equal(t, int64(3200), products[9].Price)
	})

	t.Run("unknown range label", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/catalog/products?price_range=Free", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode[any](t, w).Error.Code)
	})

	t.Run("limit out of bounds", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/catalog/products?limit=500", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decode[any](t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "limit", resp.Error.Details[0].Field)
	})
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	r := catalogEngine(t)

	t.Run("found", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/catalog/products/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		p := decode[catalogapp.ProductResponse](t, w).Data
		assert.Equal(t, int64(1), p.ID)
		assert.Equal(t, "Elite Conqueror Account", p.Title)
		assert.Equal(t, int64(2500), p.Price)
		assert.Equal(t, "Conqueror", p.Rank)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/catalog/products/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/catalog/products/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decode[any](t, w).Error.Code)
	})
}

func TestCatalogHandler_GetFilterOptions(t *testing.T) {
	r := catalogEngine(t)

	w := doRequest(r, http.MethodGet, "/catalog/filter-options", nil)
	require.Equal(t, http.StatusOK, w.Code)

	opts := decode[catalogapp.FilterOptionsResponse](t, w).Data
	assert.Equal(t, "All", opts.Ranks[0])
	assert.Contains(t, opts.Ranks, "Conqueror")
	assert.Contains(t, opts.Statuses, "Reserved")
	require.NotEmpty(t, opts.PriceRanges)
	last := opts.PriceRanges[len(opts.PriceRanges)-1]
	assert.Equal(t, "Above ₹3000", last.Label)
	assert.Nil(t, last.Max)
	assert.Contains(t, opts.SortOptions, "price-low")
}
