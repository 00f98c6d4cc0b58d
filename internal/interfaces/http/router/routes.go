package router

import (
	"github.com/hellcat/store/internal/interfaces/http/handler"
)

// Handlers are the API handlers mounted by StoreRoutes
type Handlers struct {
	System   *handler.SystemHandler
	Catalog  *handler.CatalogHandler
	Orders   *handler.OrderHandler
	Admin    *handler.AdminHandler
	Sessions *handler.SessionHandler
}

// StoreRoutes returns the route groups of the storefront API
func StoreRoutes(h Handlers) []RouteRegistrar {
	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	catalog := NewDomainGroup("catalog", "/catalog").
		GET("/products", h.Catalog.ListProducts).
		GET("/products/:id", h.Catalog.GetProduct).
		GET("/filter-options", h.Catalog.GetFilterOptions)

	orders := NewDomainGroup("orders", "/orders").
		POST("", h.Orders.CreateOrder).
		GET("/recent-purchases", h.Orders.RecentPurchases).
		GET("/:id", h.Orders.GetOrder).
		POST("/:id/payment", h.Orders.ProcessPayment)

	admin := NewDomainGroup("admin", "/admin").
		GET("/analytics", h.Admin.GetAnalytics)
	admin.Group("orders", "/orders").
		GET("", h.Admin.ListOrders).
		GET("/export", h.Admin.ExportOrders).
		GET("/export.csv", h.Admin.ExportOrdersCSV).
		PATCH("/:id/status", h.Admin.UpdateOrderStatus)
	admin.Group("products", "/products").
		POST("", h.Admin.CreateProduct).
		PUT("/:id", h.Admin.UpdateProduct).
		DELETE("/:id", h.Admin.DeleteProduct)

	sessions := NewDomainGroup("sessions", "/sessions").
		POST("", h.Sessions.Create).
		GET("/:id", h.Sessions.Get).
		DELETE("/:id", h.Sessions.Delete).
		PUT("/:id/filters", h.Sessions.SetFilters).
		PUT("/:id/search", h.Sessions.Search).
		PUT("/:id/sort", h.Sessions.Sort).
		PUT("/:id/page", h.Sessions.Page).
		PUT("/:id/realtime", h.Sessions.RealTime).
		GET("/:id/stream", h.Sessions.Stream).
		GET("/:id/orders", h.Sessions.ListOrders).
		POST("/:id/orders", h.Sessions.CreateOrder).
		POST("/:id/orders/:orderId/payment", h.Sessions.ProcessPayment).
		PATCH("/:id/orders/:orderId/status", h.Sessions.UpdateOrderStatus).
		POST("/:id/products", h.Sessions.AddProduct).
		PUT("/:id/products/:productId", h.Sessions.UpdateProduct).
		DELETE("/:id/products/:productId", h.Sessions.DeleteProduct)

	return []RouteRegistrar{system, catalog, orders, admin, sessions}
}
