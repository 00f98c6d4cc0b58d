package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/hellcat/store/internal/domain/order"
)

// MemoryOrderRepository keeps orders in process memory in insertion order
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []order.Order
}

// NewMemoryOrderRepository creates a repository holding the given orders
func NewMemoryOrderRepository(initial ...order.Order) *MemoryOrderRepository {
	orders := make([]order.Order, 0, len(initial))
	for i := range initial {
		orders = append(orders, cloneOrder(&initial[i]))
	}
	return &MemoryOrderRepository{orders: orders}
}

// FindAll returns every order, newest first
func (r *MemoryOrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	return r.list(ctx, func(*order.Order) bool { return true }, 0)
}

// FindCompleted returns completed orders, newest first
func (r *MemoryOrderRepository) FindCompleted(ctx context.Context, limit int) ([]order.Order, error) {
	return r.list(ctx, (*order.Order).IsCompleted, limit)
}

// FindByID finds an order by its ID
func (r *MemoryOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, order.ErrOrderNotFound
	}
	o := cloneOrder(&r.orders[idx])
	return &o, nil
}

// Exists reports whether an order id is taken
func (r *MemoryOrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id) >= 0, nil
}

// Create appends a new order
func (r *MemoryOrderRepository) Create(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(o.ID) >= 0 {
		return errDuplicateOrder(o.ID)
	}
	r.orders = append(r.orders, cloneOrder(o))
	return nil
}

// Save replaces the stored order with the same id
func (r *MemoryOrderRepository) Save(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(o.ID)
	if idx < 0 {
		return order.ErrOrderNotFound
	}
	r.orders[idx] = cloneOrder(o)
	return nil
}

func (r *MemoryOrderRepository) list(ctx context.Context, keep func(*order.Order) bool, limit int) ([]order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]order.Order, 0, len(r.orders))
	for i := range r.orders {
		if keep(&r.orders[i]) {
			out = append(out, cloneOrder(&r.orders[i]))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryOrderRepository) indexOf(id string) int {
	for i := range r.orders {
		if r.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// cloneOrder copies an order without its pending events
func cloneOrder(o *order.Order) order.Order {
	c := order.Order{
		ID:        o.ID,
		ProductID: o.ProductID,
		Product:   o.Product.Snapshot(),
		Buyer:     o.Buyer,
		Amount:    o.Amount,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.PaymentID != nil {
		id := *o.PaymentID
		c.PaymentID = &id
	}
	if o.DeliveredAt != nil {
		at := *o.DeliveredAt
		c.DeliveredAt = &at
	}
	if o.Credentials != nil {
		creds := *o.Credentials
		c.Credentials = &creds
	}
	return c
}

var _ order.OrderRepository = (*MemoryOrderRepository)(nil)
