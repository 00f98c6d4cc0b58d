package session

import (
	"time"

	"github.com/hellcat/store/internal/application/analytics"
	catalogapp "github.com/hellcat/store/internal/application/catalog"
	orderapp "github.com/hellcat/store/internal/application/order"
)

// Action is a state transition applied by Reduce. Type names the action on
// the event stream.
type Action interface {
	Type() string
}

// SetLoading sets the loading flag of one operation
type SetLoading struct {
	Op      Operation
	Loading bool
}

// SetError stores an error for one operation and clears only that
// operation's loading flag
type SetError struct {
	Op      Operation
	Message string
}

// ClearError empties one operation's error slot
type ClearError struct {
	Op Operation
}

// SetProducts replaces the product page and total
type SetProducts struct {
	Products []catalogapp.ProductResponse
	Total    int
}

// SetOrders replaces the admin order list
type SetOrders struct {
	Orders []orderapp.OrderResponse
}

// SetRecentPurchases replaces the social proof feed
type SetRecentPurchases struct {
	Purchases []orderapp.RecentPurchaseResponse
}

// UpdateProductStatus patches the status of one product
type UpdateProductStatus struct {
	ProductID int64
	Status    string
}

// AddProduct prepends a product and bumps the total
type AddProduct struct {
	Product catalogapp.ProductResponse
}

// UpdateProduct replaces a product by id
type UpdateProduct struct {
	Product catalogapp.ProductResponse
}

// DeleteProduct removes a product by id
type DeleteProduct struct {
	ProductID int64
}

// SetRealTimeUpdates toggles live updates
type SetRealTimeUpdates struct {
	Enabled bool
}

// UpdateAnalytics merges the non-nil fields into the analytics snapshot
type UpdateAnalytics struct {
	TotalRevenue        *int64
	TotalRevenueDisplay *string
	TotalOrders         *int
	CompletedOrders     *int
	PendingOrders       *int
	TopProducts         []analytics.TopProductResponse
	RecentSales         []analytics.RecentSaleResponse
	GeneratedAt         *time.Time
}

// SetFilters merges non-empty filter fields and returns to page one
type SetFilters struct {
	Filters Filters
}

// SetSearchQuery sets the search string and returns to page one
type SetSearchQuery struct {
	Query string
}

// SetSortBy sets the sort key and returns to page one
type SetSortBy struct {
	SortBy string
}

// SetCurrentPage moves to a page
type SetCurrentPage struct {
	Page int
}

// AddOrder prepends an order
type AddOrder struct {
	Order orderapp.OrderResponse
}

// UpdateOrder replaces an order by id
type UpdateOrder struct {
	Order orderapp.OrderResponse
}

func (SetLoading) Type() string          { return "SET_LOADING" }
func (SetError) Type() string            { return "SET_ERROR" }
func (ClearError) Type() string          { return "CLEAR_ERROR" }
func (SetProducts) Type() string         { return "SET_PRODUCTS" }
func (SetOrders) Type() string           { return "SET_ORDERS" }
func (SetRecentPurchases) Type() string  { return "SET_RECENT_PURCHASES" }
func (UpdateProductStatus) Type() string { return "UPDATE_PRODUCT_STATUS" }
func (AddProduct) Type() string          { return "ADD_PRODUCT" }
func (UpdateProduct) Type() string       { return "UPDATE_PRODUCT" }
func (DeleteProduct) Type() string       { return "DELETE_PRODUCT" }
func (SetRealTimeUpdates) Type() string  { return "SET_REAL_TIME_UPDATES" }
func (UpdateAnalytics) Type() string     { return "UPDATE_ANALYTICS" }
func (SetFilters) Type() string          { return "SET_FILTERS" }
func (SetSearchQuery) Type() string      { return "SET_SEARCH_QUERY" }
func (SetSortBy) Type() string           { return "SET_SORT_BY" }
func (SetCurrentPage) Type() string      { return "SET_CURRENT_PAGE" }
func (AddOrder) Type() string            { return "ADD_ORDER" }
func (UpdateOrder) Type() string         { return "UPDATE_ORDER" }

// AnalyticsSnapshot builds an UpdateAnalytics action that replaces every field
func AnalyticsSnapshot(a *analytics.AnalyticsResponse) UpdateAnalytics {
	return UpdateAnalytics{
		TotalRevenue:        &a.TotalRevenue,
		TotalRevenueDisplay: &a.TotalRevenueDisplay,
		TotalOrders:         &a.TotalOrders,
		CompletedOrders:     &a.CompletedOrders,
		PendingOrders:       &a.PendingOrders,
		TopProducts:         a.TopProducts,
		RecentSales:         a.RecentSales,
		GeneratedAt:         &a.GeneratedAt,
	}
}
