package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
)

func TestProducts(t *testing.T) {
	products, err := Products()
	require.NoError(t, err)
	require.Len(t, products, 10)

	first := products[0]
	assert.EqualValues(t, 1, first.ID)
	assert.Equal(t, "Elite Conqueror Account", first.Title)
	assert.EqualValues(t, 2500, first.Price)
	assert.Equal(t, catalog.RankConqueror, first.Rank)
	assert.Equal(t, catalog.LoginTypeFacebook, first.LoginType)
	assert.Equal(t, []string{"M416 Glacier", "AKM Red Action", "Kar98k Golden Dragon"}, first.Mythics)
	assert.Equal(t, 75, first.Stats.Level)
	assert.True(t, first.Flags.Featured)

	assert.Equal(t, 10, products[1].Discount)
	assert.EqualValues(t, 2000, products[1].OriginalPrice)
	assert.Equal(t, catalog.ProductStatusSold, products[3].Status)
	assert.Equal(t, catalog.ProductStatusReserved, products[8].Status)
	assert.Empty(t, products[0].GetDomainEvents())

	prices := make([]int64, 0, 5)
	for _, p := range products[:5] {
		prices = append(prices, p.Price)
	}
	assert.Equal(t, []int64{2500, 1800, 1200, 1500, 800}, prices)
}

func TestOrders(t *testing.T) {
	products, err := Products()
	require.NoError(t, err)

	orders, err := Orders(products)
	require.NoError(t, err)
	require.Len(t, orders, 15)

	first := orders[0]
	assert.Equal(t, "ORD-001", first.ID)
	assert.Equal(t, order.StatusCompleted, first.Status)
	require.NotNil(t, first.PaymentID)
	assert.Equal(t, "pay_123456789", *first.PaymentID)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), first.CreatedAt.UTC())
	require.NotNil(t, first.DeliveredAt)
	require.NotNil(t, first.Credentials)
	assert.Equal(t, "Hellcat123456", first.Credentials.ID)
	assert.Equal(t, catalog.LoginTypeFacebook, first.Credentials.LoginType)
	assert.Equal(t, "Elite Conqueror Account", first.Product.Title)

	second := orders[1]
	assert.Equal(t, order.StatusPending, second.Status)
	assert.Nil(t, second.PaymentID)
	assert.Nil(t, second.DeliveredAt)
	assert.Nil(t, second.Credentials)

	counts := map[order.Status]int{}
	for _, o := range orders {
		counts[o.Status]++
	}
	assert.Equal(t, 8, counts[order.StatusCompleted])
	assert.Equal(t, 3, counts[order.StatusPending])
	assert.Equal(t, 2, counts[order.StatusProcessing])
	assert.Equal(t, 1, counts[order.StatusCancelled])
	assert.Equal(t, 1, counts[order.StatusRefunded])
}

func TestOrders_UnknownProduct(t *testing.T) {
	_, err := Orders(nil)
	assert.Error(t, err)
}
