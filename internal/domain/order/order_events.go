package order

import (
	"github.com/hellcat/store/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderPaid          = "OrderPaid"
	EventTypePaymentFailed      = "PaymentFailed"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderCreatedEvent is published when a buyer checks out
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID   string `json:"order_id"`
	ProductID int64  `json:"product_id"`
	Amount    int64  `json:"amount"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		ProductID:       o.ProductID,
		Amount:          o.Amount,
	}
}

// OrderPaidEvent is published when a payment succeeds and credentials are delivered
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID   string `json:"order_id"`
	ProductID int64  `json:"product_id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	paymentID := ""
	if o.PaymentID != nil {
		paymentID = *o.PaymentID
	}
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		ProductID:       o.ProductID,
		PaymentID:       paymentID,
		Amount:          o.Amount,
	}
}

// PaymentFailedEvent is published when a payment is declined
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(o *Order, reason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentFailed, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reason:          reason,
	}
}

// OrderStatusChangedEvent is published when an admin changes the status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   string `json:"order_id"`
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, oldStatus Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OldStatus:       oldStatus,
		NewStatus:       o.Status,
	}
}
