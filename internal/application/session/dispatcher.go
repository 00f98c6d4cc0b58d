package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/hellcat/store/internal/application/analytics"
	catalogapp "github.com/hellcat/store/internal/application/catalog"
	orderapp "github.com/hellcat/store/internal/application/order"
	"github.com/hellcat/store/internal/domain/catalog"
)

// CatalogAPI is the part of the product service a session drives
type CatalogAPI interface {
	GetProducts(ctx context.Context, query catalogapp.ProductListQuery) (*catalogapp.ProductListResponse, error)
	AddProduct(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	UpdateProduct(ctx context.Context, id int64, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	DeleteProduct(ctx context.Context, id int64) (*catalogapp.DeleteProductResponse, error)
}

// OrdersAPI is the part of the order service a session drives
type OrdersAPI interface {
	CreateOrder(ctx context.Context, req orderapp.CreateOrderRequest) (*orderapp.OrderResponse, error)
	ProcessPayment(ctx context.Context, orderID string, req orderapp.PaymentRequest) (*orderapp.PaymentResultResponse, error)
	GetOrders(ctx context.Context, query orderapp.OrderListQuery) (*orderapp.OrderListResponse, error)
	GetOrder(ctx context.Context, id string) (*orderapp.OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, id string, req orderapp.UpdateOrderStatusRequest) (*orderapp.OrderResponse, error)
	GetRecentPurchases(ctx context.Context) ([]orderapp.RecentPurchaseResponse, error)
}

// AnalyticsAPI serves the dashboard snapshot
type AnalyticsAPI interface {
	GetAnalytics(ctx context.Context) (*analytics.AnalyticsResponse, error)
}

// DispatcherConfig holds the dependencies of a Dispatcher
type DispatcherConfig struct {
	Store     *Store
	Catalog   CatalogAPI
	Orders    OrdersAPI
	Analytics AnalyticsAPI
	// PageSize is passed as the product page limit; zero uses the service default
	PageSize int
	Logger   *zap.Logger
}

// Dispatcher runs the asynchronous side of session actions: it calls the
// services and dispatches the outcome into the store. Each operation kind
// issues increasing sequence tokens and only the response holding the
// latest token is applied.
type Dispatcher struct {
	store     *Store
	catalog   CatalogAPI
	orders    OrdersAPI
	analytics AnalyticsAPI
	pageSize  int
	logger    *zap.Logger

	seqMu sync.Mutex
	seq   map[Operation]uint64

	onRealTime func(enabled bool)
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		store:     cfg.Store,
		catalog:   cfg.Catalog,
		orders:    cfg.Orders,
		analytics: cfg.Analytics,
		pageSize:  cfg.PageSize,
		logger:    cfg.Logger,
		seq:       make(map[Operation]uint64),
	}
	if d.store == nil {
		d.store = NewStore()
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// Store returns the store the dispatcher writes to
func (d *Dispatcher) Store() *Store {
	return d.store
}

func (d *Dispatcher) begin(op Operation) uint64 {
	d.seqMu.Lock()
	defer d.seqMu.Unlock()
	d.seq[op]++
	token := d.seq[op]
	d.store.Dispatch(SetLoading{Op: op, Loading: true})
	return token
}

// finish applies the outcome of a tokened call. It reports false when the
// response was stale and dropped.
func (d *Dispatcher) finish(op Operation, token uint64, err error, onSuccess ...Action) bool {
	d.seqMu.Lock()
	defer d.seqMu.Unlock()

	if d.seq[op] != token {
		d.logger.Debug("Discarding stale response",
			zap.String("operation", string(op)),
			zap.Uint64("token", token),
			zap.Uint64("latest", d.seq[op]),
		)
		return false
	}

	switch {
	case err == nil:
		d.store.Dispatch(ClearError{Op: op})
		for _, a := range onSuccess {
			d.store.Dispatch(a)
		}
		d.store.Dispatch(SetLoading{Op: op, Loading: false})
	case errors.Is(err, context.Canceled):
		d.store.Dispatch(SetLoading{Op: op, Loading: false})
	default:
		d.store.Dispatch(SetError{Op: op, Message: err.Error()})
	}
	return true
}

// settle applies the outcome of a mutation. Unlike loads, a successful
// mutation is always reflected in state; only the loading flag and error
// slot follow the latest token.
func (d *Dispatcher) settle(op Operation, token uint64, err error, onSuccess ...Action) {
	if d.finish(op, token, err, onSuccess...) || err != nil {
		return
	}
	for _, a := range onSuccess {
		d.store.Dispatch(a)
	}
}

// ProductQuery builds the catalog query for the current view state
func (d *Dispatcher) ProductQuery() catalogapp.ProductListQuery {
	s := d.store.State()
	return catalogapp.ProductListQuery{
		Search:      s.SearchQuery,
		Rank:        s.Filters.Rank,
		LoginType:   s.Filters.LoginType,
		Status:      s.Filters.Status,
		PriceRange:  s.Filters.PriceRange,
		MythicCount: s.Filters.MythicCount,
		SortBy:      s.SortBy,
		Page:        s.CurrentPage,
		Limit:       d.pageSize,
	}
}

// LoadProducts fetches the product page for the current filters, search,
// sort and page
func (d *Dispatcher) LoadProducts(ctx context.Context) error {
	token := d.begin(OpProducts)
	resp, err := d.catalog.GetProducts(ctx, d.ProductQuery())
	if err != nil {
		d.finish(OpProducts, token, err)
		return err
	}
	d.finish(OpProducts, token, nil, SetProducts{Products: resp.Products, Total: resp.Total})
	return nil
}

// LoadOrders fetches the admin order list
func (d *Dispatcher) LoadOrders(ctx context.Context, query orderapp.OrderListQuery) error {
	token := d.begin(OpOrders)
	resp, err := d.orders.GetOrders(ctx, query)
	if err != nil {
		d.finish(OpOrders, token, err)
		return err
	}
	d.finish(OpOrders, token, nil, SetOrders{Orders: resp.Orders})
	return nil
}

// LoadRecentPurchases fetches the social proof feed
func (d *Dispatcher) LoadRecentPurchases(ctx context.Context) error {
	token := d.begin(OpRecentPurchases)
	purchases, err := d.orders.GetRecentPurchases(ctx)
	if err != nil {
		d.finish(OpRecentPurchases, token, err)
		return err
	}
	d.finish(OpRecentPurchases, token, nil, SetRecentPurchases{Purchases: purchases})
	return nil
}

// LoadAnalytics fetches the dashboard snapshot
func (d *Dispatcher) LoadAnalytics(ctx context.Context) error {
	token := d.begin(OpAnalytics)
	resp, err := d.analytics.GetAnalytics(ctx)
	if err != nil {
		d.finish(OpAnalytics, token, err)
		return err
	}
	d.finish(OpAnalytics, token, nil, AnalyticsSnapshot(resp))
	return nil
}

// CreateOrder places an order and prepends it to the order list
func (d *Dispatcher) CreateOrder(ctx context.Context, req orderapp.CreateOrderRequest) (*orderapp.OrderResponse, error) {
	token := d.begin(OpPayment)
	created, err := d.orders.CreateOrder(ctx, req)
	if err != nil {
		d.settle(OpPayment, token, err)
		return nil, err
	}
	d.settle(OpPayment, token, nil, AddOrder{Order: *created})
	return created, nil
}

// ProcessPayment pays for an order. On success the order is refreshed in
// the order list and its product is marked Sold Out.
func (d *Dispatcher) ProcessPayment(ctx context.Context, orderID string, req orderapp.PaymentRequest) (*orderapp.PaymentResultResponse, error) {
	token := d.begin(OpPayment)
	result, err := d.orders.ProcessPayment(ctx, orderID, req)
	if err != nil {
		d.settle(OpPayment, token, err)
		return nil, err
	}

	actions := []Action{
		UpdateProductStatus{ProductID: result.ProductID, Status: string(catalog.ProductStatusSoldOut)},
	}
	if paid, err := d.orders.GetOrder(ctx, result.OrderID); err == nil {
		actions = append(actions, UpdateOrder{Order: *paid})
	} else {
		d.logger.Warn("Failed to refresh paid order",
			zap.String("order_id", result.OrderID),
			zap.Error(err),
		)
	}
	d.settle(OpPayment, token, nil, actions...)
	return result, nil
}

// AddProduct creates a product and prepends it to the product list
func (d *Dispatcher) AddProduct(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	token := d.begin(OpAdmin)
	created, err := d.catalog.AddProduct(ctx, req)
	if err != nil {
		d.settle(OpAdmin, token, err)
		return nil, err
	}
	d.settle(OpAdmin, token, nil, AddProduct{Product: *created})
	return created, nil
}

// UpdateProduct edits a product and replaces it in the product list
func (d *Dispatcher) UpdateProduct(ctx context.Context, id int64, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	token := d.begin(OpAdmin)
	updated, err := d.catalog.UpdateProduct(ctx, id, req)
	if err != nil {
		d.settle(OpAdmin, token, err)
		return nil, err
	}
	d.settle(OpAdmin, token, nil, UpdateProduct{Product: *updated})
	return updated, nil
}

// DeleteProduct removes a product and drops it from the product list
func (d *Dispatcher) DeleteProduct(ctx context.Context, id int64) error {
	token := d.begin(OpAdmin)
	if _, err := d.catalog.DeleteProduct(ctx, id); err != nil {
		d.settle(OpAdmin, token, err)
		return err
	}
	d.settle(OpAdmin, token, nil, DeleteProduct{ProductID: id})
	return nil
}

// UpdateOrderStatus changes an order's status and replaces it in the order list
func (d *Dispatcher) UpdateOrderStatus(ctx context.Context, id string, req orderapp.UpdateOrderStatusRequest) (*orderapp.OrderResponse, error) {
	token := d.begin(OpAdmin)
	updated, err := d.orders.UpdateOrderStatus(ctx, id, req)
	if err != nil {
		d.settle(OpAdmin, token, err)
		return nil, err
	}
	d.settle(OpAdmin, token, nil, UpdateOrder{Order: *updated})
	return updated, nil
}

// ApplyFilters merges the filter selection and reloads the first page
func (d *Dispatcher) ApplyFilters(ctx context.Context, filters Filters) error {
	d.store.Dispatch(SetFilters{Filters: filters})
	return d.LoadProducts(ctx)
}

// Search sets the search string and reloads the first page
func (d *Dispatcher) Search(ctx context.Context, query string) error {
	d.store.Dispatch(SetSearchQuery{Query: query})
	return d.LoadProducts(ctx)
}

// SortBy sets the sort key and reloads the first page
func (d *Dispatcher) SortBy(ctx context.Context, sortBy string) error {
	d.store.Dispatch(SetSortBy{SortBy: sortBy})
	return d.LoadProducts(ctx)
}

// GoToPage moves to a page and reloads it
func (d *Dispatcher) GoToPage(ctx context.Context, page int) error {
	d.store.Dispatch(SetCurrentPage{Page: page})
	return d.LoadProducts(ctx)
}

// SetRealTimeUpdates toggles live updates
func (d *Dispatcher) SetRealTimeUpdates(enabled bool) {
	d.store.Dispatch(SetRealTimeUpdates{Enabled: enabled})
	if d.onRealTime != nil {
		d.onRealTime(enabled)
	}
}

// OnRealTimeChange registers the callback run after SetRealTimeUpdates
func (d *Dispatcher) OnRealTimeChange(fn func(enabled bool)) {
	d.onRealTime = fn
}
