package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/hellcat/store/internal/application/catalog"
	orderapp "github.com/hellcat/store/internal/application/order"
	"github.com/hellcat/store/internal/application/session"
)

type sessionAction[T any] struct {
	Result  T               `json:"result"`
	Session SessionResponse `json:"session"`
}

func productByID(products []catalogapp.ProductResponse, id int64) (catalogapp.ProductResponse, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return catalogapp.ProductResponse{}, false
}

func TestSessionHandler_Checkout(t *testing.T) {
	r := sessionEngine(t, time.Minute)
	id := createSession(t, r).ID
	path := "/sessions/" + id

	w := doRequest(r, http.MethodPost, path+"/orders", checkoutBody(1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[sessionAction[orderapp.OrderResponse]](t, w).Data
	assert.Equal(t, "pending", created.Result.Status)
	require.Len(t, created.Session.State.Orders, 1)
	assert.Equal(t, created.Result.ID, created.Session.State.Orders[0].ID)

	w = doRequest(r, http.MethodPost, path+"/orders/"+created.Result.ID+"/payment", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode[sessionAction[orderapp.PaymentResultResponse]](t, w).Data
	assert.True(t, paid.Result.Success)
	assert.Regexp(t, `^pay_\d+$`, paid.Result.PaymentID)

	state := paid.Session.State
	require.Len(t, state.Orders, 1)
	assert.Equal(t, "completed", state.Orders[0].Status)
	require.NotNil(t, state.Orders[0].Credentials)
	product, ok := productByID(state.Products, 1)
	require.True(t, ok)
	assert.Equal(t, "Sold Out", product.Status)
	assert.False(t, state.Loading[session.OpPayment])

	t.Run("failed payment fills the payment error slot", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, path+"/orders/ORD-missing/payment", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Order not found", decode[SessionResponse](t, w).Data.State.Errors[session.OpPayment])
	})

	t.Run("invalid email is a validation error", func(t *testing.T) {
		body := checkoutBody(2)
		body["buyer"] = map[string]any{"name": "Ravi", "email": "not-an-email", "phone": "9876543210"}
		w := doRequest(r, http.MethodPost, path+"/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doRequest(r, http.MethodGet, path, nil)
		state := decode[SessionResponse](t, w).Data.State
		assert.Equal(t, "Please enter a valid email address", state.Errors[session.OpPayment])
		assert.Len(t, state.Orders, 1)
	})

	t.Run("unknown session", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/sessions/nope/orders", checkoutBody(2))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSessionHandler_AdminOrders(t *testing.T) {
	r := sessionEngine(t, time.Minute)
	path := "/sessions/" + createSession(t, r).ID

	w := doRequest(r, http.MethodGet, path+"/orders?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	orders := decode[SessionResponse](t, w).Data.State.Orders
	require.NotEmpty(t, orders)
	for _, o := range orders {
		assert.Equal(t, "pending", o.Status)
	}

	target := orders[0].ID
	w = doRequest(r, http.MethodPatch, path+"/orders/"+target+"/status", orderapp.UpdateOrderStatusRequest{Status: "processing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[sessionAction[orderapp.OrderResponse]](t, w).Data
	assert.Equal(t, "processing", updated.Result.Status)
	assert.Equal(t, target, updated.Session.State.Orders[0].ID)
	assert.Equal(t, "processing", updated.Session.State.Orders[0].Status)

	w = doRequest(r, http.MethodGet, path+"/orders?status=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[SessionResponse](t, w).Data.State.Orders, 15)
}

func TestSessionHandler_AdminProducts(t *testing.T) {
	r := sessionEngine(t, time.Minute)
	path := "/sessions/" + createSession(t, r).ID

	w := doRequest(r, http.MethodPost, path+"/products", catalogapp.CreateProductRequest{
		Title:     "Fresh Conqueror ID",
		Price:     3200,
		Rank:      "Conqueror",
		LoginType: "Google",
		Mythics:   []string{"M416 Glacier"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decode[sessionAction[catalogapp.ProductResponse]](t, w).Data
	assert.EqualValues(t, 11, added.Result.ID)
	assert.EqualValues(t, 11, added.Session.State.Products[0].ID)
	assert.Equal(t, 11, added.Session.State.TotalResults)

	title := "Renamed Conqueror ID"
	w = doRequest(r, http.MethodPut, path+"/products/11", catalogapp.UpdateProductRequest{Title: &title})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	edited := decode[sessionAction[catalogapp.ProductResponse]](t, w).Data
	product, ok := productByID(edited.Session.State.Products, 11)
	require.True(t, ok)
	assert.Equal(t, title, product.Title)

	w = doRequest(r, http.MethodDelete, path+"/products/11", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	deleted := decode[sessionAction[catalogapp.DeleteProductResponse]](t, w).Data
	assert.True(t, deleted.Result.Success)
	_, ok = productByID(deleted.Session.State.Products, 11)
	assert.False(t, ok)
	assert.Equal(t, 10, deleted.Session.State.TotalResults)

	t.Run("bad product id", func(t *testing.T) {
		w := doRequest(r, http.MethodDelete, path+"/products/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing product fills the admin error slot", func(t *testing.T) {
		w := doRequest(r, http.MethodDelete, path+"/products/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(r, http.MethodGet, path, nil)
		assert.Equal(t, "Product not found", decode[SessionResponse](t, w).Data.State.Errors[session.OpAdmin])
	})
}
