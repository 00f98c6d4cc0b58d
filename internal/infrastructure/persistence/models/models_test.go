package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
)

func TestProductModel_RoundTrip(t *testing.T) {
	p, err := catalog.NewProduct(7, catalog.ProductAttributes{
		Title:     "Pro Gamer Special",
		Price:     2200,
		Rank:      catalog.RankAce,
		LoginType: catalog.LoginTypeTwitter,
		Mythics:   []string{"M416 Glacier"},
		Stats:     catalog.Stats{Level: 70, KD: 2.9, WinRate: 64.2},
		Flags:     catalog.Flags{IsHot: true},
	})
	require.NoError(t, err)

	m := ProductModelFromDomain(p, -3)
	assert.EqualValues(t, -3, m.Position)
	assert.Equal(t, "Ace", m.Rank)
	assert.Equal(t, []string{}, m.Vehicles)

	back := m.ToDomain()
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, p.Title, back.Title)
	assert.Equal(t, p.Stats, back.Stats)
	assert.Equal(t, p.Flags, back.Flags)
	assert.Equal(t, p.Mythics, back.Mythics)
	assert.EqualValues(t, 2200, back.OriginalPrice)
}

func TestOrderModel_RoundTrip(t *testing.T) {
	p, err := catalog.NewProduct(1, catalog.ProductAttributes{
		Title: "Elite Conqueror Account", Price: 2500,
		Rank: catalog.RankConqueror, LoginType: catalog.LoginTypeFacebook,
	})
	require.NoError(t, err)

	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	o, err := order.NewOrder("ORD-1", p, order.Buyer{Name: "John Doe", Email: "john@example.com", Phone: "9876543210"}, now)
	require.NoError(t, err)

	t.Run("pending order has no credentials", func(t *testing.T) {
		m := OrderModelFromDomain(o)
		assert.Nil(t, m.CredentialID)
		back := m.ToDomain()
		assert.Nil(t, back.Credentials)
		assert.Equal(t, order.StatusPending, back.Status)
		assert.Equal(t, "Elite Conqueror Account", back.Product.Title)
		assert.Equal(t, o.Buyer, back.Buyer)
	})

	t.Run("completed order keeps credentials", func(t *testing.T) {
		require.NoError(t, o.CompletePayment("pay_1", order.Credentials{ID: "Hellcat1", Password: "Pass1", LoginType: catalog.LoginTypeFacebook}, now))
		back := OrderModelFromDomain(o).ToDomain()
		require.NotNil(t, back.Credentials)
		assert.Equal(t, "Hellcat1", back.Credentials.ID)
		assert.Equal(t, catalog.LoginTypeFacebook, back.Credentials.LoginType)
		require.NotNil(t, back.PaymentID)
		assert.Equal(t, "pay_1", *back.PaymentID)
		require.NotNil(t, back.DeliveredAt)
	})
}
