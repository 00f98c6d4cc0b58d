package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
)

// DefaultSuccessRate is the share of simulated payments that are approved
const DefaultSuccessRate = 0.9

// SimulatedGateway approves payments at a fixed probability and mints
// delivery credentials. Seed 0 draws a random seed.
type SimulatedGateway struct {
	mu          sync.Mutex
	faker       *gofakeit.Faker
	successRate float64
}

// NewSimulatedGateway creates a gateway with the given success rate
func NewSimulatedGateway(successRate float64, seed uint64) *SimulatedGateway {
	return &SimulatedGateway{
		faker:       gofakeit.New(seed),
		successRate: successRate,
	}
}

// Approve draws the outcome for one payment attempt
func (g *SimulatedGateway) Approve(ctx context.Context, _ *order.Order) bool {
	if ctx.Err() != nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Float64() < g.successRate
}

// Generate returns a Hellcat<0..999999>/Pass<0..9999> login bound to loginType
func (g *SimulatedGateway) Generate(loginType catalog.LoginType) order.Credentials {
	g.mu.Lock()
	defer g.mu.Unlock()
	return order.Credentials{
		ID:        fmt.Sprintf("Hellcat%d", g.faker.Number(0, 999999)),
		Password:  fmt.Sprintf("Pass%d", g.faker.Number(0, 9999)),
		LoginType: loginType,
	}
}

var (
	_ order.PaymentOutcomeSource = (*SimulatedGateway)(nil)
	_ order.CredentialGenerator  = (*SimulatedGateway)(nil)
)
