package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/domain/shared/valueobject"
)

// Rank is the tier of a game account
type Rank string

const (
	RankBronze    Rank = "Bronze"
	RankSilver    Rank = "Silver"
	RankGold      Rank = "Gold"
	RankPlatinum  Rank = "Platinum"
	RankDiamond   Rank = "Diamond"
	RankCrown     Rank = "Crown"
	RankAce       Rank = "Ace"
	RankConqueror Rank = "Conqueror"
)

// RankOrder lists ranks from highest to lowest
var RankOrder = []Rank{
	RankConqueror,
	RankAce,
	RankCrown,
	RankDiamond,
	RankPlatinum,
	RankGold,
	RankSilver,
	RankBronze,
}

// IsValid checks if the rank is known
func (r Rank) IsValid() bool {
	return r.Position() < len(RankOrder)
}

// Position returns the index of the rank in RankOrder.
// Unknown ranks sort after every known rank.
func (r Rank) Position() int {
	for i, rank := range RankOrder {
		if rank == r {
			return i
		}
	}
	return len(RankOrder)
}

// LoginType is the platform the account is bound to
type LoginType string

const (
	LoginTypeFacebook LoginType = "Facebook"
	LoginTypeGoogle   LoginType = "Google"
	LoginTypeGuest    LoginType = "Guest"
	LoginTypeTwitter  LoginType = "Twitter"
)

// IsValid checks if the login type is known
func (l LoginType) IsValid() bool {
	switch l {
	case LoginTypeFacebook, LoginTypeGoogle, LoginTypeGuest, LoginTypeTwitter:
		return true
	}
	return false
}

// ProductStatus represents the availability of a product
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "Available"
	ProductStatusSold      ProductStatus = "Sold"
	ProductStatusSoldOut   ProductStatus = "Sold Out"
	ProductStatusReserved  ProductStatus = "Reserved"
)

// IsValid checks if the status is known
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusSold, ProductStatusSoldOut, ProductStatusReserved:
		return true
	}
	return false
}

// Stats are the in-game statistics of an account
type Stats struct {
	Level   int
	RP      int
	KD      float64
	Matches int
	WinRate float64
}

// Flags are the merchandising badges shown on a listing
type Flags struct {
	IsHot       bool
	IsLimited   bool
	IsExclusive bool
	Featured    bool
}

// Product is a game account listed for sale.
// It is the aggregate root of the catalog.
type Product struct {
	shared.EventRecorder
	ID            int64
	Title         string
	Price         int64
	OriginalPrice int64
	Discount      int
	Rank          Rank
	LoginType     LoginType
	Status        ProductStatus
	Mythics       []string
	Vehicles      []string
	Pets          []string
	Stats         Stats
	Flags         Flags
	Image         string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductAttributes holds the fields needed to list a new product
type ProductAttributes struct {
	Title         string
	Price         int64
	OriginalPrice int64
	Discount      int
	Rank          Rank
	LoginType     LoginType
	Status        ProductStatus
	Mythics       []string
	Vehicles      []string
	Pets          []string
	Stats         Stats
	Flags         Flags
	Image         string
	Description   string
}

// NewProduct creates a new product with the given id
func NewProduct(id int64, attrs ProductAttributes) (*Product, error) {
	if id <= 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID must be positive")
	}
	if attrs.Status == "" {
		attrs.Status = ProductStatusAvailable
	}
	if attrs.OriginalPrice == 0 {
		attrs.OriginalPrice = attrs.Price
	}
	if err := validateAttributes(attrs); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &Product{
		ID:            id,
		Title:         strings.TrimSpace(attrs.Title),
		Price:         attrs.Price,
		OriginalPrice: attrs.OriginalPrice,
		Discount:      attrs.Discount,
		Rank:          attrs.Rank,
		LoginType:     attrs.LoginType,
		Status:        attrs.Status,
		Mythics:       cloneStrings(attrs.Mythics),
		Vehicles:      cloneStrings(attrs.Vehicles),
		Pets:          cloneStrings(attrs.Pets),
		Stats:         attrs.Stats,
		Flags:         attrs.Flags,
		Image:         attrs.Image,
		Description:   attrs.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// ProductPatch carries the fields to merge into an existing product.
// Nil fields are left untouched.
type ProductPatch struct {
	Title         *string
	Price         *int64
	OriginalPrice *int64
	Discount      *int
	Rank          *Rank
	LoginType     *LoginType
	Status        *ProductStatus
	Mythics       []string
	Vehicles      []string
	Pets          []string
	Stats         *Stats
	Flags         *Flags
	Image         *string
	Description   *string
}

// Update merges the patch into the product
func (p *Product) Update(patch ProductPatch) error {
	next := p.attributes()
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.OriginalPrice != nil {
		next.OriginalPrice = *patch.OriginalPrice
	}
	if patch.Discount != nil {
		next.Discount = *patch.Discount
	}
	if patch.Rank != nil {
		next.Rank = *patch.Rank
	}
	if patch.LoginType != nil {
		next.LoginType = *patch.LoginType
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.Mythics != nil {
		next.Mythics = patch.Mythics
	}
	if patch.Vehicles != nil {
		next.Vehicles = patch.Vehicles
	}
	if patch.Pets != nil {
		next.Pets = patch.Pets
	}
	if patch.Stats != nil {
		next.Stats = *patch.Stats
	}
	if patch.Flags != nil {
		next.Flags = *patch.Flags
	}
	if patch.Image != nil {
		next.Image = *patch.Image
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}

	if err := validateAttributes(next); err != nil {
		return err
	}

	oldStatus := p.Status
	p.Title = strings.TrimSpace(next.Title)
	p.Price = next.Price
	p.OriginalPrice = next.OriginalPrice
	p.Discount = next.Discount
	p.Rank = next.Rank
	p.LoginType = next.LoginType
	p.Status = next.Status
	p.Mythics = cloneStrings(next.Mythics)
	p.Vehicles = cloneStrings(next.Vehicles)
	p.Pets = cloneStrings(next.Pets)
	p.Stats = next.Stats
	p.Flags = next.Flags
	p.Image = next.Image
	p.Description = next.Description
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
	if oldStatus != p.Status {
		p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus))
	}

	return nil
}

// ChangeStatus sets the product status
func (p *Product) ChangeStatus(status ProductStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PRODUCT_STATUS", "Invalid product status: "+string(status))
	}
	if p.Status == status {
		return nil
	}
	oldStatus := p.Status
	p.Status = status
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus))
	return nil
}

// MarkSoldOut flips the product to Sold Out after a completed purchase
func (p *Product) MarkSoldOut() {
	_ = p.ChangeStatus(ProductStatusSoldOut)
}

// IsAvailable returns true if the product can be purchased
func (p *Product) IsAvailable() bool {
	return p.Status == ProductStatusAvailable
}

// MythicCount returns the number of mythic items on the account
func (p *Product) MythicCount() int {
	return len(p.Mythics)
}

// PriceMoney returns the price as Money
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Price)
}

// Savings returns how much cheaper the product is than its original price
func (p *Product) Savings() valueobject.Money {
	if p.OriginalPrice <= p.Price {
		return valueobject.Zero(valueobject.INR)
	}
	savings, _ := valueobject.NewMoneyINR(p.OriginalPrice).Subtract(p.PriceMoney())
	return savings
}

// Snapshot returns a detached copy of the product without pending events
func (p *Product) Snapshot() Product {
	return Product{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Rank:          p.Rank,
		LoginType:     p.LoginType,
		Status:        p.Status,
		Mythics:       cloneStrings(p.Mythics),
		Vehicles:      cloneStrings(p.Vehicles),
		Pets:          cloneStrings(p.Pets),
		Stats:         p.Stats,
		Flags:         p.Flags,
		Image:         p.Image,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Key returns the product id as an aggregate key
func (p *Product) Key() string {
	return strconv.FormatInt(p.ID, 10)
}

func (p *Product) attributes() ProductAttributes {
	return ProductAttributes{
		Title:         p.Title,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Rank:          p.Rank,
		LoginType:     p.LoginType,
		Status:        p.Status,
		Mythics:       p.Mythics,
		Vehicles:      p.Vehicles,
		Pets:          p.Pets,
		Stats:         p.Stats,
		Flags:         p.Flags,
		Image:         p.Image,
		Description:   p.Description,
	}
}

func validateAttributes(attrs ProductAttributes) error {
	title := strings.TrimSpace(attrs.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 200 characters")
	}
	if attrs.Price <= 0 {
		return shared.NewDomainError("INVALID_PRICE", "Product price must be positive")
	}
	if attrs.OriginalPrice < 0 {
		return shared.NewDomainError("INVALID_PRICE", "Original price cannot be negative")
	}
	if attrs.Discount < 0 || attrs.Discount > 100 {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}
	if !attrs.Rank.IsValid() {
		return shared.NewDomainError("INVALID_RANK", "Invalid rank: "+string(attrs.Rank))
	}
	if !attrs.LoginType.IsValid() {
		return shared.NewDomainError("INVALID_LOGIN_TYPE", "Invalid login type: "+string(attrs.LoginType))
	}
	if !attrs.Status.IsValid() {
		return shared.NewDomainError("INVALID_PRODUCT_STATUS", "Invalid product status: "+string(attrs.Status))
	}
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
