package models

import (
	"github.com/hellcat/store/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate.
// Position orders the catalog listing: smaller values are listed first.
type ProductModel struct {
	ID            int64    `gorm:"primaryKey;autoIncrement:false"`
	Position      int64    `gorm:"not null;index"`
	Title         string   `gorm:"type:varchar(200);not null"`
	Price         int64    `gorm:"not null"`
	OriginalPrice int64    `gorm:"not null;default:0"`
	Discount      int      `gorm:"not null;default:0"`
	Rank          string   `gorm:"type:varchar(20);not null;index"`
	LoginType     string   `gorm:"type:varchar(20);not null"`
	Status        string   `gorm:"type:varchar(20);not null;default:'Available';index"`
	Mythics       []string `gorm:"type:text;serializer:json"`
	Vehicles      []string `gorm:"type:text;serializer:json"`
	Pets          []string `gorm:"type:text;serializer:json"`
	Level         int      `gorm:"not null;default:0"`
	RP            int      `gorm:"column:rp;not null;default:0"`
	KD            float64  `gorm:"column:kd;not null;default:0"`
	Matches       int      `gorm:"not null;default:0"`
	WinRate       float64  `gorm:"not null;default:0"`
	IsHot         bool     `gorm:"not null;default:false"`
	IsLimited     bool     `gorm:"not null;default:false"`
	IsExclusive   bool     `gorm:"not null;default:false"`
	Featured      bool     `gorm:"not null;default:false"`
	Image         string   `gorm:"type:varchar(500)"`
	Description   string   `gorm:"type:text"`
	Timestamps
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:            m.ID,
		Title:         m.Title,
		Price:         m.Price,
		OriginalPrice: m.OriginalPrice,
		Discount:      m.Discount,
		Rank:          catalog.Rank(m.Rank),
		LoginType:     catalog.LoginType(m.LoginType),
		Status:        catalog.ProductStatus(m.Status),
		Mythics:       nonNil(m.Mythics),
		Vehicles:      nonNil(m.Vehicles),
		Pets:          nonNil(m.Pets),
		Stats: catalog.Stats{
			Level:   m.Level,
			RP:      m.RP,
			KD:      m.KD,
			Matches: m.Matches,
			WinRate: m.WinRate,
		},
		Flags: catalog.Flags{
			IsHot:       m.IsHot,
			IsLimited:   m.IsLimited,
			IsExclusive: m.IsExclusive,
			Featured:    m.Featured,
		},
		Image:       m.Image,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product.
// Position is left untouched.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.Title = p.Title
	m.Price = p.Price
	m.OriginalPrice = p.OriginalPrice
	m.Discount = p.Discount
	m.Rank = string(p.Rank)
	m.LoginType = string(p.LoginType)
	m.Status = string(p.Status)
	m.Mythics = nonNil(p.Mythics)
	m.Vehicles = nonNil(p.Vehicles)
	m.Pets = nonNil(p.Pets)
	m.Level = p.Stats.Level
	m.RP = p.Stats.RP
	m.KD = p.Stats.KD
	m.Matches = p.Stats.Matches
	m.WinRate = p.Stats.WinRate
	m.IsHot = p.Flags.IsHot
	m.IsLimited = p.Flags.IsLimited
	m.IsExclusive = p.Flags.IsExclusive
	m.Featured = p.Flags.Featured
	m.Image = p.Image
	m.Description = p.Description
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// ProductModelFromDomain creates a persistence model at the given position
func ProductModelFromDomain(p *catalog.Product, position int64) *ProductModel {
	m := &ProductModel{Position: position}
	m.FromDomain(p)
	return m
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
