package session

import (
	"slices"

	catalogapp "github.com/hellcat/store/internal/application/catalog"
	orderapp "github.com/hellcat/store/internal/application/order"
)

// Reduce returns the state that results from applying a to s. It never
// mutates s; unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch act := a.(type) {
	case SetLoading:
		next.Loading[act.Op] = act.Loading
	case SetError:
		next.Errors[act.Op] = act.Message
		next.Loading[act.Op] = false
	case ClearError:
		delete(next.Errors, act.Op)

	case SetProducts:
		next.Products = nonNilSlice(slices.Clone(act.Products))
		next.TotalResults = act.Total
		next.Loading[OpProducts] = false
	case SetOrders:
		next.Orders = nonNilSlice(slices.Clone(act.Orders))
		next.Loading[OpOrders] = false
	case SetRecentPurchases:
		next.RecentPurchases = nonNilSlice(slices.Clone(act.Purchases))
		next.Loading[OpRecentPurchases] = false

	case UpdateProductStatus:
		for i := range next.Products {
			if next.Products[i].ID == act.ProductID {
				next.Products[i].Status = act.Status
			}
		}
	case AddProduct:
		next.Products = append([]catalogapp.ProductResponse{act.Product}, next.Products...)
		next.TotalResults++
	case UpdateProduct:
		for i := range next.Products {
			if next.Products[i].ID == act.Product.ID {
				next.Products[i] = act.Product
			}
		}
	case DeleteProduct:
		next.Products = slices.DeleteFunc(next.Products, func(p catalogapp.ProductResponse) bool {
			return p.ID == act.ProductID
		})
		next.TotalResults = max(next.TotalResults-1, 0)

	case SetRealTimeUpdates:
		next.RealTimeUpdates = act.Enabled
	case UpdateAnalytics:
		mergeAnalytics(&next, act)
		next.Loading[OpAnalytics] = false

	case SetFilters:
		next.Filters = next.Filters.merge(act.Filters)
		next.CurrentPage = 1
	case SetSearchQuery:
		next.SearchQuery = act.Query
		next.CurrentPage = 1
	case SetSortBy:
		next.SortBy = act.SortBy
		next.CurrentPage = 1
	case SetCurrentPage:
		if act.Page >= 1 {
			next.CurrentPage = act.Page
		}

	case AddOrder:
		next.Orders = append([]orderapp.OrderResponse{act.Order}, next.Orders...)
	case UpdateOrder:
		for i := range next.Orders {
			if next.Orders[i].ID == act.Order.ID {
				next.Orders[i] = act.Order
			}
		}

	default:
		return s
	}
	return next
}

func mergeAnalytics(s *State, act UpdateAnalytics) {
	a := &s.Analytics
	if act.TotalRevenue != nil {
		a.TotalRevenue = *act.TotalRevenue
	}
	if act.TotalRevenueDisplay != nil {
		a.TotalRevenueDisplay = *act.TotalRevenueDisplay
	}
	if act.TotalOrders != nil {
		a.TotalOrders = *act.TotalOrders
	}
	if act.CompletedOrders != nil {
		a.CompletedOrders = *act.CompletedOrders
	}
	if act.PendingOrders != nil {
		a.PendingOrders = *act.PendingOrders
	}
	if act.TopProducts != nil {
		a.TopProducts = slices.Clone(act.TopProducts)
	}
	if act.RecentSales != nil {
		a.RecentSales = slices.Clone(act.RecentSales)
	}
	if act.GeneratedAt != nil {
		a.GeneratedAt = *act.GeneratedAt
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
