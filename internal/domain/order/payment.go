package order

import (
	"context"

	"github.com/hellcat/store/internal/domain/catalog"
)

// PaymentMethod is the checkout payment option the buyer selected
type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodStripe   PaymentMethod = "stripe"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodRazorpay || m == PaymentMethodStripe
}

// PaymentOutcomeSource decides whether a simulated payment succeeds.
// Production uses a probabilistic source; tests inject a fixed one.
type PaymentOutcomeSource interface {
	Approve(ctx context.Context, o *Order) bool
}

// CredentialGenerator produces the login handed to the buyer on delivery
type CredentialGenerator interface {
	Generate(loginType catalog.LoginType) Credentials
}

// PaymentResult is what the buyer receives after a successful payment
type PaymentResult struct {
	Success     bool
	PaymentID   string
	Credentials Credentials
}
