package order

import (
	"context"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindAll returns every order, newest first by creation time
	FindAll(ctx context.Context) ([]Order, error)

	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindCompleted returns completed orders, newest first, at most limit (0 = no limit)
	FindCompleted(ctx context.Context, limit int) ([]Order, error)

	// Exists reports whether an order id is already taken
	Exists(ctx context.Context, id string) (bool, error)

	// Create stores a new order
	Create(ctx context.Context, o *Order) error

	// Save updates an existing order
	Save(ctx context.Context, o *Order) error
}
