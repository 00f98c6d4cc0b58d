// Package analytics aggregates completed orders into the admin dashboard snapshot.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	catalogapp "github.com/hellcat/store/internal/application/catalog"
	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/domain/shared/valueobject"
	"github.com/hellcat/store/internal/infrastructure/cache"
	"github.com/hellcat/store/internal/infrastructure/latency"
	"github.com/hellcat/store/internal/infrastructure/metrics"
	"github.com/hellcat/store/internal/infrastructure/telemetry"
)

// SnapshotKey is the cache key of the dashboard snapshot
const SnapshotKey = "analytics:snapshot"

const (
	defaultRecentDays = 7
	defaultTopN       = 5
)

// ServiceConfig holds the dependencies of AnalyticsService
type ServiceConfig struct {
	Orders  order.OrderRepository
	Latency latency.Waiter
	// Cache is optional; a nil cache or zero TTL recomputes on every call
	Cache      cache.Store
	CacheTTL   time.Duration
	RecentDays int
	TopN       int
	Metrics    *metrics.Metrics
	Clock      func() time.Time
	Logger     *zap.Logger
}

// AnalyticsService computes revenue, order counts, top sellers and recent sales
type AnalyticsService struct {
	orders     order.OrderRepository
	latency    latency.Waiter
	cache      cache.Store
	cacheTTL   time.Duration
	recentDays int
	topN       int
	metrics    *metrics.Metrics
	now        func() time.Time
	logger     *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(cfg ServiceConfig) *AnalyticsService {
	s := &AnalyticsService{
		orders:     cfg.Orders,
		latency:    cfg.Latency,
		cache:      cfg.Cache,
		cacheTTL:   cfg.CacheTTL,
		recentDays: cfg.RecentDays,
		topN:       cfg.TopN,
		metrics:    cfg.Metrics,
		now:        cfg.Clock,
		logger:     cfg.Logger,
	}
	if s.latency == nil {
		s.latency = latency.Disabled()
	}
	if s.recentDays <= 0 {
		s.recentDays = defaultRecentDays
	}
	if s.topN <= 0 {
		s.topN = defaultTopN
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// GetAnalytics returns the dashboard snapshot, from cache when fresh
func (s *AnalyticsService) GetAnalytics(ctx context.Context) (*AnalyticsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "AnalyticsService", "GetAnalytics")
	defer span.End()

	if err := s.latency.Wait(ctx, latency.GetAnalytics); err != nil {
		return nil, err
	}

	if cached, ok := s.cached(ctx); ok {
		return cached, nil
	}

	all, err := s.orders.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load orders for analytics: %w", err)
	}

	snapshot := Compute(all, s.now(), s.recentDays, s.topN)
	s.store(ctx, snapshot)
	return snapshot, nil
}

// Invalidate drops the cached snapshot
func (s *AnalyticsService) Invalidate(ctx context.Context) error {
	if !s.cacheEnabled() {
		return nil
	}
	return s.cache.Delete(ctx, SnapshotKey)
}

// EventTypes implements shared.EventHandler
func (s *AnalyticsService) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypeOrderPaid,
		order.EventTypeOrderStatusChanged,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductDeleted,
	}
}

// Handle invalidates the snapshot whenever orders change
func (s *AnalyticsService) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := s.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate analytics snapshot",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *AnalyticsService) cacheEnabled() bool {
	return s.cache != nil && s.cacheTTL > 0
}

func (s *AnalyticsService) cached(ctx context.Context) (*AnalyticsResponse, bool) {
	if !s.cacheEnabled() {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, SnapshotKey)
	if err != nil {
		s.logger.Warn("Analytics cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		s.metrics.CacheLookup(false)
		return nil, false
	}
	var snapshot AnalyticsResponse
	if err := json.Unmarshal(data, &snapshot); err != nil {
		s.logger.Warn("Discarding corrupt analytics snapshot", zap.Error(err))
		s.metrics.CacheLookup(false)
		return nil, false
	}
	s.metrics.CacheLookup(true)
	return &snapshot, true
}

func (s *AnalyticsService) store(ctx context.Context, snapshot *AnalyticsResponse) {
	if !s.cacheEnabled() {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("Failed to encode analytics snapshot", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, SnapshotKey, data, s.cacheTTL); err != nil {
		s.logger.Warn("Analytics cache write failed", zap.Error(err))
	}
}

type productSales struct {
	product catalog.Product
	sales   int
	revenue int64
}

// Compute aggregates orders as of now. Top products are completed orders
// grouped by product, revenue descending with ties in first-seen order.
// Recent sales are completed orders created within the last recentDays.
func Compute(orders []order.Order, now time.Time, recentDays, topN int) *AnalyticsResponse {
	since := now.AddDate(0, 0, -recentDays)
	revenue := valueobject.Zero(valueobject.INR)

	resp := &AnalyticsResponse{
		TotalOrders: len(orders),
		TopProducts: []TopProductResponse{},
		RecentSales: []RecentSaleResponse{},
		GeneratedAt: now,
	}

	var grouped []*productSales
	byProduct := make(map[int64]*productSales)

	for i := range orders {
		o := &orders[i]
		switch o.Status {
		case order.StatusPending:
			resp.PendingOrders++
			continue
		case order.StatusCompleted:
		default:
			continue
		}

		resp.CompletedOrders++
		revenue = revenue.MustAdd(o.AmountMoney())

		entry, ok := byProduct[o.ProductID]
		if !ok {
			entry = &productSales{product: o.Product}
			byProduct[o.ProductID] = entry
			grouped = append(grouped, entry)
		}
		entry.sales++
		entry.revenue += o.Amount

		if !o.CreatedAt.Before(since) {
			resp.RecentSales = append(resp.RecentSales, RecentSaleResponse{
				Date:    o.CreatedAt,
				Amount:  o.Amount,
				Product: o.Product.Title,
			})
		}
	}

	// revenue desc, then product id asc
	sort.Slice(grouped, func(i, j int) bool {
		if grouped[i].revenue != grouped[j].revenue {
			return grouped[i].revenue > grouped[j].revenue
		}
		return grouped[i].product.ID < grouped[j].product.ID
	})
	if len(grouped) > topN {
		grouped = grouped[:topN]
	}
	for _, g := range grouped {
		resp.TopProducts = append(resp.TopProducts, TopProductResponse{
			Product: catalogapp.ToProductResponse(&g.product),
			Sales:   g.sales,
			Revenue: g.revenue,
		})
	}

	resp.TotalRevenue = revenue.Int64()
	resp.TotalRevenueDisplay = revenue.Format()
	return resp
}

var _ shared.EventHandler = (*AnalyticsService)(nil)
