package models

import (
	"time"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
)

// ProductSnapshot is the product as it was when the order was placed
type ProductSnapshot struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"originalPrice"`
	Discount      int      `json:"discount"`
	Rank          string   `json:"rank"`
	LoginType     string   `json:"loginType"`
	Status        string   `json:"status"`
	Mythics       []string `json:"mythics"`
	Vehicles      []string `json:"vehicles"`
	Pets          []string `json:"pets"`
	Level         int      `json:"level"`
	RP            int      `json:"rp"`
	KD            float64  `json:"kd"`
	Matches       int      `json:"matches"`
	WinRate       float64  `json:"winRate"`
	IsHot         bool     `json:"isHot"`
	IsLimited     bool     `json:"isLimited"`
	IsExclusive   bool     `json:"isExclusive"`
	Featured      bool     `json:"featured"`
	Image         string   `json:"image"`
	Description   string   `json:"description"`
}

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	ID                  string          `gorm:"type:varchar(40);primaryKey"`
	ProductID           int64           `gorm:"not null;index"`
	Product             ProductSnapshot `gorm:"type:text;serializer:json"`
	BuyerName           string          `gorm:"type:varchar(200);not null"`
	BuyerEmail          string          `gorm:"type:varchar(200);not null"`
	BuyerPhone          string          `gorm:"type:varchar(40);not null"`
	Amount              int64           `gorm:"not null"`
	Status              string          `gorm:"type:varchar(20);not null;index"`
	PaymentID           *string         `gorm:"type:varchar(60)"`
	CredentialID        *string         `gorm:"type:varchar(60)"`
	CredentialPassword  *string         `gorm:"type:varchar(60)"`
	CredentialLoginType *string         `gorm:"type:varchar(20)"`
	DeliveredAt         *time.Time
	CreatedAt           time.Time `gorm:"not null;index"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		ID:        m.ID,
		ProductID: m.ProductID,
		Product:   m.Product.toDomain(),
		Buyer: order.Buyer{
			Name:  m.BuyerName,
			Email: m.BuyerEmail,
			Phone: m.BuyerPhone,
		},
		Amount:      m.Amount,
		Status:      order.Status(m.Status),
		PaymentID:   m.PaymentID,
		DeliveredAt: m.DeliveredAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.CredentialID != nil {
		creds := order.Credentials{ID: *m.CredentialID}
		if m.CredentialPassword != nil {
			creds.Password = *m.CredentialPassword
		}
		if m.CredentialLoginType != nil {
			creds.LoginType = catalog.LoginType(*m.CredentialLoginType)
		}
		o.Credentials = &creds
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.ID = o.ID
	m.ProductID = o.ProductID
	m.Product = snapshotFromDomain(&o.Product)
	m.BuyerName = o.Buyer.Name
	m.BuyerEmail = o.Buyer.Email
	m.BuyerPhone = o.Buyer.Phone
	m.Amount = o.Amount
	m.Status = string(o.Status)
	m.PaymentID = o.PaymentID
	m.DeliveredAt = o.DeliveredAt
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
	m.CredentialID, m.CredentialPassword, m.CredentialLoginType = nil, nil, nil
	if o.Credentials != nil {
		id, password, loginType := o.Credentials.ID, o.Credentials.Password, string(o.Credentials.LoginType)
		m.CredentialID = &id
		m.CredentialPassword = &password
		m.CredentialLoginType = &loginType
	}
}

// OrderModelFromDomain creates a persistence model from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

func snapshotFromDomain(p *catalog.Product) ProductSnapshot {
	return ProductSnapshot{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Rank:          string(p.Rank),
		LoginType:     string(p.LoginType),
		Status:        string(p.Status),
		Mythics:       nonNil(p.Mythics),
		Vehicles:      nonNil(p.Vehicles),
		Pets:          nonNil(p.Pets),
		Level:         p.Stats.Level,
		RP:            p.Stats.RP,
		KD:            p.Stats.KD,
		Matches:       p.Stats.Matches,
		WinRate:       p.Stats.WinRate,
		IsHot:         p.Flags.IsHot,
		IsLimited:     p.Flags.IsLimited,
		IsExclusive:   p.Flags.IsExclusive,
		Featured:      p.Flags.Featured,
		Image:         p.Image,
		Description:   p.Description,
	}
}

func (s ProductSnapshot) toDomain() catalog.Product {
	return catalog.Product{
		ID:            s.ID,
		Title:         s.Title,
		Price:         s.Price,
		OriginalPrice: s.OriginalPrice,
		Discount:      s.Discount,
		Rank:          catalog.Rank(s.Rank),
		LoginType:     catalog.LoginType(s.LoginType),
		Status:        catalog.ProductStatus(s.Status),
		Mythics:       nonNil(s.Mythics),
		Vehicles:      nonNil(s.Vehicles),
		Pets:          nonNil(s.Pets),
		Stats: catalog.Stats{
			Level:   s.Level,
			RP:      s.RP,
			KD:      s.KD,
			Matches: s.Matches,
			WinRate: s.WinRate,
		},
		Flags: catalog.Flags{
			IsHot:       s.IsHot,
			IsLimited:   s.IsLimited,
			IsExclusive: s.IsExclusive,
			Featured:    s.Featured,
		},
		Image:       s.Image,
		Description: s.Description,
	}
}

// AllModels lists every model for auto-migration
func AllModels() []any {
	return []any{&ProductModel{}, &OrderModel{}}
}
