package order

import (
	"regexp"
	"strings"
	"time"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/domain/shared/valueobject"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Buyer is the contact captured at checkout
type Buyer struct {
	Name  string
	Email string
	Phone string
}

// Validate checks that name, email and phone are present and well formed
func (b Buyer) Validate() error {
	if strings.TrimSpace(b.Name) == "" || strings.TrimSpace(b.Email) == "" || strings.TrimSpace(b.Phone) == "" {
		return shared.NewValidationError("Please fill in all required fields")
	}
	if !IsValidEmail(b.Email) {
		return shared.NewValidationError("Please enter a valid email address")
	}
	if !IsValidPhone(b.Phone) {
		return shared.NewValidationError("Please enter a valid phone number")
	}
	return nil
}

// FirstName returns the first word of the buyer name
func (b Buyer) FirstName() string {
	fields := strings.Fields(b.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// RedactedName hides everything after the first name
func (b Buyer) RedactedName() string {
	return b.FirstName() + "***"
}

// IsValidEmail checks the basic local@domain.tld shape
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone checks for a 10 digit Indian mobile number. Separators are ignored
// and a leading 91 country code is accepted.
func IsValidPhone(phone string) bool {
	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	return phonePattern.MatchString(digits)
}

// Credentials are the login details handed over once an order is paid
type Credentials struct {
	ID        string
	Password  string
	LoginType catalog.LoginType
}

// Order is a purchase of a single product.
// It is the aggregate root of the ordering context.
type Order struct {
	shared.EventRecorder
	ID          string
	ProductID   int64
	Product     catalog.Product
	Buyer       Buyer
	Amount      int64
	Status      Status
	PaymentID   *string
	Credentials *Credentials
	CreatedAt   time.Time
	DeliveredAt *time.Time
	UpdatedAt   time.Time
}

// NewOrder creates a pending order for the product. The product snapshot
// is embedded and the amount is the current product price.
func NewOrder(id string, product *catalog.Product, buyer Buyer, now time.Time) (*Order, error) {
	if id == "" {
		return nil, shared.NewValidationError("Order ID is required")
	}
	if product == nil {
		return nil, catalog.ErrProductNotFound
	}
	if err := buyer.Validate(); err != nil {
		return nil, err
	}
	if !product.IsAvailable() {
		return nil, shared.NewDomainError(shared.CodeBusinessRule, "Product is not available for purchase")
	}

	o := &Order{
		ID:        id,
		ProductID: product.ID,
		Product:   product.Snapshot(),
		Buyer: Buyer{
			Name:  strings.TrimSpace(buyer.Name),
			Email: strings.TrimSpace(buyer.Email),
			Phone: strings.TrimSpace(buyer.Phone),
		},
		Amount:    product.Price,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// CompletePayment records a successful payment and delivers the credentials
func (o *Order) CompletePayment(paymentID string, credentials Credentials, now time.Time) error {
	if !o.Status.IsPayable() {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot pay for order in status "+string(o.Status))
	}
	if paymentID == "" {
		return shared.NewValidationError("Payment ID is required")
	}

	o.Status = StatusCompleted
	o.PaymentID = &paymentID
	o.DeliveredAt = &now
	o.Credentials = &credentials
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// RecordPaymentFailure notes a declined payment. The order stays payable.
func (o *Order) RecordPaymentFailure(reason string) {
	o.AddDomainEvent(NewPaymentFailedEvent(o, reason))
}

// ChangeStatus overwrites the status if the policy allows it. Moving to
// completed stamps DeliveredAt when it is not set yet.
func (o *Order) ChangeStatus(to Status, policy TransitionPolicy, now time.Time) error {
	if policy == nil {
		policy = PermissiveTransitions{}
	}
	if !policy.Allows(o.Status, to) {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Cannot change order status from "+string(o.Status)+" to "+string(to))
	}

	from := o.Status
	o.Status = to
	if to == StatusCompleted && o.DeliveredAt == nil {
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now

	if from != to {
		o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	}
	return nil
}

// IsCompleted returns true if the order has been fulfilled
func (o *Order) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// AmountMoney returns the amount as Money
func (o *Order) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(o.Amount)
}

// ErrOrderNotFound is returned when an order lookup fails
var ErrOrderNotFound = shared.NewNotFoundError("Order not found")
