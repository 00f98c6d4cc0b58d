// Package session holds per-visitor storefront view state. Actions are
// applied by a pure reducer; asynchronous loads run in the Dispatcher and
// feed their results back as plain actions.
package session

import (
	"slices"

	"github.com/hellcat/store/internal/application/analytics"
	catalogapp "github.com/hellcat/store/internal/application/catalog"
	orderapp "github.com/hellcat/store/internal/application/order"
	"github.com/hellcat/store/internal/domain/catalog"
)

// Operation keys the loading flags and error slots
type Operation string

const (
	OpProducts        Operation = "products"
	OpOrders          Operation = "orders"
	OpPayment         Operation = "payment"
	OpAdmin           Operation = "admin"
	OpRecentPurchases Operation = "recentPurchases"
	OpAnalytics       Operation = "analytics"
)

// Filters are the catalog filter bar selections. Empty fields in a
// SetFilters action keep the current value.
type Filters struct {
	Rank        string `json:"rank"`
	LoginType   string `json:"loginType"`
	Status      string `json:"status"`
	PriceRange  string `json:"priceRange"`
	MythicCount string `json:"mythicCount"`
}

// DefaultFilters selects everything
func DefaultFilters() Filters {
	return Filters{
		Rank:        catalog.All,
		LoginType:   catalog.All,
		Status:      catalog.All,
		PriceRange:  catalog.All,
		MythicCount: catalog.All,
	}
}

func (f Filters) merge(patch Filters) Filters {
	if patch.Rank != "" {
		f.Rank = patch.Rank
	}
	if patch.LoginType != "" {
		f.LoginType = patch.LoginType
	}
	if patch.Status != "" {
		f.Status = patch.Status
	}
	if patch.PriceRange != "" {
		f.PriceRange = patch.PriceRange
	}
	if patch.MythicCount != "" {
		f.MythicCount = patch.MythicCount
	}
	return f
}

// State is everything the storefront and admin views render from
type State struct {
	Products        []catalogapp.ProductResponse      `json:"products"`
	TotalResults    int                               `json:"totalResults"`
	Orders          []orderapp.OrderResponse          `json:"orders"`
	RecentPurchases []orderapp.RecentPurchaseResponse `json:"recentPurchases"`
	Analytics       analytics.AnalyticsResponse       `json:"analytics"`
	Filters         Filters                           `json:"filters"`
	SearchQuery     string                            `json:"searchQuery"`
	SortBy          string                            `json:"sortBy"`
	CurrentPage     int                               `json:"currentPage"`
	RealTimeUpdates bool                              `json:"realTimeUpdates"`
	Loading         map[Operation]bool                `json:"loading"`
	Errors          map[Operation]string              `json:"errors"`
}

// InitialState returns the state of a fresh session
func InitialState() State {
	return State{
		Products:        []catalogapp.ProductResponse{},
		Orders:          []orderapp.OrderResponse{},
		RecentPurchases: []orderapp.RecentPurchaseResponse{},
		Analytics: analytics.AnalyticsResponse{
			TopProducts: []analytics.TopProductResponse{},
			RecentSales: []analytics.RecentSaleResponse{},
		},
		Filters:         DefaultFilters(),
		SortBy:          string(catalog.SortDefault),
		CurrentPage:     1,
		RealTimeUpdates: true,
		Loading:         map[Operation]bool{},
		Errors:          map[Operation]string{},
	}
}

// Clone returns a copy that shares no slices or maps with s
func (s State) Clone() State {
	c := s
	c.Products = slices.Clone(s.Products)
	c.Orders = slices.Clone(s.Orders)
	c.RecentPurchases = slices.Clone(s.RecentPurchases)
	c.Analytics.TopProducts = slices.Clone(s.Analytics.TopProducts)
	c.Analytics.RecentSales = slices.Clone(s.Analytics.RecentSales)
	c.Loading = make(map[Operation]bool, len(s.Loading))
	for k, v := range s.Loading {
		c.Loading[k] = v
	}
	c.Errors = make(map[Operation]string, len(s.Errors))
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	return c
}

// IsLoading reports the loading flag of op
func (s State) IsLoading(op Operation) bool {
	return s.Loading[op]
}

// Error returns the error message stored for op
func (s State) Error(op Operation) string {
	return s.Errors[op]
}
