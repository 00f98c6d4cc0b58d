package analytics

import (
	"time"

	catalogapp "github.com/hellcat/store/internal/application/catalog"
)

// AnalyticsResponse is the admin dashboard snapshot
type AnalyticsResponse struct {
	TotalRevenue        int64                `json:"totalRevenue"`
	TotalRevenueDisplay string               `json:"totalRevenueDisplay"`
	TotalOrders         int                  `json:"totalOrders"`
	CompletedOrders     int                  `json:"completedOrders"`
	PendingOrders       int                  `json:"pendingOrders"`
	TopProducts         []TopProductResponse `json:"topProducts"`
	RecentSales         []RecentSaleResponse `json:"recentSales"`
	GeneratedAt         time.Time            `json:"generatedAt"`
}

// TopProductResponse aggregates completed orders of one product
type TopProductResponse struct {
	Product catalogapp.ProductResponse `json:"product"`
	Sales   int                        `json:"sales"`
	Revenue int64                      `json:"revenue"`
}

// RecentSaleResponse is a completed order inside the recent window
type RecentSaleResponse struct {
	Date    time.Time `json:"date"`
	Amount  int64     `json:"amount"`
	Product string    `json:"product"`
}
