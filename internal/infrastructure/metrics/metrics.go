// Package metrics exposes Prometheus counters for HTTP traffic and store
// business activity.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/domain/shared"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "hellcat"

// Payment outcome label values
const (
	OutcomeSuccess   = "success"
	OutcomeDeclined  = "declined"
	OutcomeDuplicate = "duplicate"
)

// Metrics holds the collectors on a private registry.
// All methods are safe on a nil receiver so callers may run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	ordersCreated  prometheus.Counter
	payments       *prometheus.CounterVec
	revenue        prometheus.Counter
	statusChanges  *prometheus.CounterVec
	productsSold   prometheus.Counter
	activeSessions prometheus.Gauge
	cacheLookups   *prometheus.CounterVec
}

// New creates the collectors and registers them together with the Go and
// process collectors
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, simulated backend delay included.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method", "route"})

	m.ordersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders placed at checkout.",
	})

	m.payments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Payment attempts by outcome.",
	}, []string{"outcome"})

	m.revenue = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revenue_rupees_total",
		Help:      "Revenue from completed payments in rupees.",
	})

	m.statusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Manual order status changes by target status.",
	}, []string{"status"})

	m.productsSold = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_sold_out_total",
		Help:      "Products flipped to Sold Out.",
	})

	m.activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Open storefront sessions.",
	})

	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_cache_lookups_total",
		Help:      "Analytics snapshot cache lookups by result.",
	}, []string{"result"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.ordersCreated,
		m.payments,
		m.revenue,
		m.statusChanges,
		m.productsSold,
		m.activeSessions,
		m.cacheLookups,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one finished request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// DuplicatePayment counts a payment replay rejected by the idempotency guard
func (m *Metrics) DuplicatePayment() {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(OutcomeDuplicate).Inc()
}

// SessionOpened increments the active session gauge
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// CacheLookup records an analytics cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// EventTypes implements shared.EventHandler
func (m *Metrics) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypeOrderPaid,
		order.EventTypePaymentFailed,
		order.EventTypeOrderStatusChanged,
		catalog.EventTypeProductStatusChanged,
	}
}

// Handle derives business counters from domain events
func (m *Metrics) Handle(_ context.Context, event shared.DomainEvent) error {
	if m == nil {
		return nil
	}
	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		m.ordersCreated.Inc()
	case *order.OrderPaidEvent:
		m.payments.WithLabelValues(OutcomeSuccess).Inc()
		m.revenue.Add(float64(e.Amount))
	case *order.PaymentFailedEvent:
		m.payments.WithLabelValues(OutcomeDeclined).Inc()
	case *order.OrderStatusChangedEvent:
		m.statusChanges.WithLabelValues(string(e.NewStatus)).Inc()
	case *catalog.ProductStatusChangedEvent:
		if e.NewStatus == catalog.ProductStatusSoldOut {
			m.productsSold.Inc()
		}
	}
	return nil
}

var _ shared.EventHandler = (*Metrics)(nil)
