package catalog

import (
	"context"

	"github.com/hellcat/store/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// FindAll returns products in catalog order: newly added products first,
// then the seeded listing order.
type ProductRepository interface {
	// FindAll returns every product in catalog order
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id int64) (*Product, error)

	// NextID returns the id for a new product: the largest existing id plus one,
	// or 1 when the catalog is empty
	NextID(ctx context.Context) (int64, error)

	// Create stores a new product at the front of the catalog
	Create(ctx context.Context, product *Product) error

	// Save updates an existing product
	Save(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id int64) error

	// Count returns the number of products
	Count(ctx context.Context) (int64, error)
}

// ErrProductNotFound is returned when a product lookup fails
var ErrProductNotFound = shared.NewNotFoundError("Product not found")
