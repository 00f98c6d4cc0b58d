// Package latency simulates fixed backend round-trip delays per operation.
package latency

import (
	"context"
	"time"

	"github.com/hellcat/store/internal/infrastructure/config"
)

// Operation names a simulated backend call
type Operation string

const (
	GetProducts       Operation = "get_products"
	GetProduct        Operation = "get_product"
	GetFilterOptions  Operation = "get_filter_options"
	CreateOrder       Operation = "create_order"
	ProcessPayment    Operation = "process_payment"
	GetOrders         Operation = "get_orders"
	GetOrder          Operation = "get_order"
	UpdateOrderStatus Operation = "update_order_status"
	ExportOrders      Operation = "export_orders"
	RecentPurchases   Operation = "recent_purchases"
	AddProduct        Operation = "add_product"
	UpdateProduct     Operation = "update_product"
	DeleteProduct     Operation = "delete_product"
	GetAnalytics      Operation = "get_analytics"
)

// Waiter blocks for the simulated duration of an operation
type Waiter interface {
	Wait(ctx context.Context, op Operation) error
}

// Simulator sleeps a fixed duration per operation. No jitter, no retry.
type Simulator struct {
	enabled bool
	delays  map[Operation]time.Duration
}

// NewSimulator builds a simulator from explicit delays
func NewSimulator(enabled bool, delays map[Operation]time.Duration) *Simulator {
	copied := make(map[Operation]time.Duration, len(delays))
	for op, d := range delays {
		copied[op] = d
	}
	return &Simulator{enabled: enabled, delays: copied}
}

// FromConfig builds a simulator from the latency configuration
func FromConfig(cfg config.LatencyConfig) *Simulator {
	return NewSimulator(cfg.Enabled, map[Operation]time.Duration{
		GetProducts:       cfg.GetProducts,
		GetProduct:        cfg.GetProduct,
		GetFilterOptions:  cfg.GetFilterOptions,
		CreateOrder:       cfg.CreateOrder,
		ProcessPayment:    cfg.ProcessPayment,
		GetOrders:         cfg.GetOrders,
		GetOrder:          cfg.GetOrder,
		UpdateOrderStatus: cfg.UpdateOrderStatus,
		ExportOrders:      cfg.ExportOrders,
		RecentPurchases:   cfg.RecentPurchases,
		AddProduct:        cfg.MutateProduct,
		UpdateProduct:     cfg.MutateProduct,
		DeleteProduct:     cfg.MutateProduct,
		GetAnalytics:      cfg.GetAnalytics,
	})
}

// Disabled returns a simulator that never waits
func Disabled() *Simulator {
	return &Simulator{}
}

// Delay returns the configured delay for op, zero when disabled
func (s *Simulator) Delay(op Operation) time.Duration {
	if s == nil || !s.enabled {
		return 0
	}
	return s.delays[op]
}

// Wait sleeps for the operation's delay, returning ctx.Err() if the
// context ends first.
func (s *Simulator) Wait(ctx context.Context, op Operation) error {
	d := s.Delay(op)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Waiter = (*Simulator)(nil)
