package payment

import (
	"context"
	"sync/atomic"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
)

// FixedOutcome always returns the same decision and counts attempts
type FixedOutcome struct {
	approve  bool
	attempts atomic.Int64
}

// AlwaysApprove returns an outcome source that never declines
func AlwaysApprove() *FixedOutcome { return &FixedOutcome{approve: true} }

// AlwaysDecline returns an outcome source that never approves
func AlwaysDecline() *FixedOutcome { return &FixedOutcome{} }

// Approve implements order.PaymentOutcomeSource
func (f *FixedOutcome) Approve(context.Context, *order.Order) bool {
	f.attempts.Add(1)
	return f.approve
}

// Attempts returns how many outcomes were drawn
func (f *FixedOutcome) Attempts() int64 {
	return f.attempts.Load()
}

// StaticCredentials hands out the same login every time
type StaticCredentials struct {
	ID       string
	Password string
}

// Generate implements order.CredentialGenerator
func (s StaticCredentials) Generate(loginType catalog.LoginType) order.Credentials {
	return order.Credentials{ID: s.ID, Password: s.Password, LoginType: loginType}
}

var (
	_ order.PaymentOutcomeSource = (*FixedOutcome)(nil)
	_ order.CredentialGenerator  = StaticCredentials{}
)
