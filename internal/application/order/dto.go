package order

import (
	"time"

	catalogapp "github.com/hellcat/store/internal/application/catalog"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/domain/shared/valueobject"
)

// BuyerRequest is the contact captured at checkout
type BuyerRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,max=200"`
	Phone string `json:"phone" binding:"required,in_phone"`
}

// CreateOrderRequest represents a checkout for a single product
type CreateOrderRequest struct {
	ProductID     int64        `json:"productId" binding:"required,gt=0"`
	Buyer         BuyerRequest `json:"buyer" binding:"required"`
	PaymentMethod string       `json:"paymentMethod" binding:"omitempty,oneof=razorpay stripe"`
}

// PaymentRequest represents a payment attempt for an order.
// IdempotencyKey is taken from the Idempotency-Key header.
type PaymentRequest struct {
	PaymentMethod  string `json:"paymentMethod" binding:"omitempty,oneof=razorpay stripe"`
	IdempotencyKey string `json:"-"`
}

// OrderListQuery filters the admin order list
type OrderListQuery struct {
	Search string `form:"search" json:"search"`
	Status string `form:"status" json:"status"`
}

// UpdateOrderStatusRequest represents an admin status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BuyerResponse represents the buyer of an order
type BuyerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CredentialsResponse carries the delivered login
type CredentialsResponse struct {
	ID        string `json:"id"`
	Password  string `json:"password"`
	LoginType string `json:"loginType"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            string                     `json:"id"`
	ProductID     int64                      `json:"productId"`
	Product       catalogapp.ProductResponse `json:"product"`
	Buyer         BuyerResponse              `json:"buyer"`
	Amount        int64                      `json:"amount"`
	AmountDisplay string                     `json:"amountDisplay"`
	Status        string                     `json:"status"`
	PaymentID     *string                    `json:"paymentId"`
	Credentials   *CredentialsResponse       `json:"credentials"`
	CreatedAt     time.Time                  `json:"createdAt"`
	DeliveredAt   *time.Time                 `json:"deliveredAt"`
	UpdatedAt     time.Time                  `json:"updatedAt"`
}

// OrderListResponse is the admin order list, newest first
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// PaymentResultResponse is returned after a successful payment
type PaymentResultResponse struct {
	Success     bool                `json:"success"`
	OrderID     string              `json:"orderId"`
	ProductID   int64               `json:"productId"`
	PaymentID   string              `json:"paymentId"`
	Credentials CredentialsResponse `json:"credentials"`
	Replayed    bool                `json:"replayed,omitempty"`
}

// RecentPurchaseResponse is a redacted completed order shown as social proof
type RecentPurchaseResponse struct {
	ID          string    `json:"id"`
	ProductName string    `json:"productName"`
	BuyerName   string    `json:"buyerName"`
	Amount      int64     `json:"amount"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

// ExportRow is one flattened order ready for CSV
type ExportRow struct {
	OrderID   string `json:"Order ID"`
	Product   string `json:"Product"`
	BuyerName string `json:"Buyer Name"`
	Email     string `json:"Email"`
	Phone     string `json:"Phone"`
	Amount    int64  `json:"Amount"`
	Status    string `json:"Status"`
	CreatedAt string `json:"Created At"`
}

// ExportFile is a rendered CSV export. Location is set when the file was archived.
type ExportFile struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
	Rows     int    `json:"rows"`
	Location string `json:"location,omitempty"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		ProductID:     o.ProductID,
		Product:       catalogapp.ToProductResponse(&o.Product),
		Buyer:         BuyerResponse{Name: o.Buyer.Name, Email: o.Buyer.Email, Phone: o.Buyer.Phone},
		Amount:        o.Amount,
		AmountDisplay: valueobject.FormatINR(o.Amount),
		Status:        string(o.Status),
		PaymentID:     o.PaymentID,
		CreatedAt:     o.CreatedAt,
		DeliveredAt:   o.DeliveredAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.Credentials != nil {
		creds := toCredentialsResponse(*o.Credentials)
		resp.Credentials = &creds
	}
	return resp
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

func toCredentialsResponse(c order.Credentials) CredentialsResponse {
	return CredentialsResponse{ID: c.ID, Password: c.Password, LoginType: string(c.LoginType)}
}

func toExportRow(o *order.Order) ExportRow {
	return ExportRow{
		OrderID:   o.ID,
		Product:   o.Product.Title,
		BuyerName: o.Buyer.Name,
		Email:     o.Buyer.Email,
		Phone:     o.Buyer.Phone,
		Amount:    o.Amount,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
