package catalog

import (
	"github.com/hellcat/store/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated       = "ProductCreated"
	EventTypeProductUpdated       = "ProductUpdated"
	EventTypeProductStatusChanged = "ProductStatusChanged"
	EventTypeProductDeleted       = "ProductDeleted"
)

// ProductCreatedEvent is published when a new product is listed
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID int64     `json:"product_id"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	Rank      Rank      `json:"rank"`
	LoginType LoginType `json:"login_type"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.Key()),
		ProductID:       product.ID,
		Title:           product.Title,
		Price:           product.Price,
		Rank:            product.Rank,
		LoginType:       product.LoginType,
	}
}

// ProductUpdatedEvent is published when a product is edited
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.Key()),
		ProductID:       product.ID,
		Title:           product.Title,
		Price:           product.Price,
	}
}

// ProductStatusChangedEvent is published when availability changes,
// including the flip to Sold Out after a purchase
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProductID int64         `json:"product_id"`
	OldStatus ProductStatus `json:"old_status"`
	NewStatus ProductStatus `json:"new_status"`
}

// NewProductStatusChangedEvent creates a new ProductStatusChangedEvent
func NewProductStatusChangedEvent(product *Product, oldStatus ProductStatus) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, AggregateTypeProduct, product.Key()),
		ProductID:       product.ID,
		OldStatus:       oldStatus,
		NewStatus:       product.Status,
	}
}

// ProductDeletedEvent is published when a product is removed from the catalog
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(product *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, product.Key()),
		ProductID:       product.ID,
		Title:           product.Title,
	}
}
