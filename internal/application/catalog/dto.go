package catalog

import (
	"time"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/domain/shared/valueobject"
)

// ProductListQuery holds the catalog filter, sort and paging parameters.
// Ranges are chosen by label as offered by the filter bar, or by explicit
// bounds. Explicit bounds win when both are given.
type ProductListQuery struct {
	Search      string `form:"search" json:"search"`
	Rank        string `form:"rank" json:"rank"`
	LoginType   string `form:"login_type" json:"loginType"`
	Status      string `form:"status" json:"status"`
	PriceRange  string `form:"price_range" json:"priceRange"`
	PriceMin    *int64 `form:"price_min" json:"priceMin" binding:"omitempty,min=0"`
	PriceMax    *int64 `form:"price_max" json:"priceMax" binding:"omitempty,min=0"`
	MythicCount string `form:"mythic_count" json:"mythicCount"`
	MythicMin   *int64 `form:"mythic_min" json:"mythicMin" binding:"omitempty,min=0"`
	MythicMax   *int64 `form:"mythic_max" json:"mythicMax" binding:"omitempty,min=0"`
	SortBy      string `form:"sort_by" json:"sortBy"`
	Page        int    `form:"page" json:"page" binding:"omitempty,min=1"`
	Limit       int    `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Price         int64     `json:"price"`
	PriceDisplay  string    `json:"priceDisplay"`
	OriginalPrice int64     `json:"originalPrice"`
	Discount      int       `json:"discount"`
	Rank          string    `json:"rank"`
	LoginType     string    `json:"loginType"`
	Status        string    `json:"status"`
	Mythics       []string  `json:"mythics"`
	Vehicles      []string  `json:"vehicles"`
	Pets          []string  `json:"pets"`
	Level         int       `json:"level"`
	RP            int       `json:"rp"`
	KD            float64   `json:"kd"`
	Matches       int       `json:"matches"`
	WinRate       float64   `json:"winRate"`
	IsHot         bool      `json:"isHot"`
	IsLimited     bool      `json:"isLimited"`
	IsExclusive   bool      `json:"isExclusive"`
	Featured      bool      `json:"featured"`
	Image         string    `json:"image"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductListResponse is a filtered catalog listing.
// Total counts every match, before any page slicing.
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Pagination shared.PageInfo   `json:"pagination"`
	Pages      []int             `json:"pages"`
}

// RangeResponse is a labelled numeric range. Max is null when unbounded.
type RangeResponse struct {
	Label string `json:"label"`
	Min   int64  `json:"min"`
	Max   *int64 `json:"max"`
}

// FilterOptionsResponse lists the filter bar choices
type FilterOptionsResponse struct {
	Ranks        []string        `json:"ranks"`
	LoginTypes   []string        `json:"loginTypes"`
	Statuses     []string        `json:"statuses"`
	PriceRanges  []RangeResponse `json:"priceRanges"`
	MythicCounts []RangeResponse `json:"mythicCounts"`
	SortOptions  []string        `json:"sortOptions"`
}

// CreateProductRequest represents a request to list a new account
type CreateProductRequest struct {
	Title         string   `json:"title" binding:"required,min=1,max=200"`
	Price         int64    `json:"price" binding:"required,gt=0"`
	OriginalPrice int64    `json:"originalPrice" binding:"omitempty,min=0"`
	Discount      int      `json:"discount" binding:"omitempty,min=0,max=100"`
	Rank          string   `json:"rank" binding:"required"`
	LoginType     string   `json:"loginType" binding:"required"`
	Status        string   `json:"status"`
	Mythics       []string `json:"mythics"`
	Vehicles      []string `json:"vehicles"`
	Pets          []string `json:"pets"`
	Level         int      `json:"level" binding:"omitempty,min=0"`
	RP            int      `json:"rp" binding:"omitempty,min=0"`
	KD            float64  `json:"kd" binding:"omitempty,min=0"`
	Matches       int      `json:"matches" binding:"omitempty,min=0"`
	WinRate       float64  `json:"winRate" binding:"omitempty,min=0,max=100"`
	IsHot         bool     `json:"isHot"`
	IsLimited     bool     `json:"isLimited"`
	IsExclusive   bool     `json:"isExclusive"`
	Featured      bool     `json:"featured"`
	Image         string   `json:"image" binding:"max=500"`
	Description   string   `json:"description" binding:"max=2000"`
}

// UpdateProductRequest represents a partial product update.
// Only the supplied fields are changed.
type UpdateProductRequest struct {
	Title         *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Price         *int64   `json:"price" binding:"omitempty,gt=0"`
	OriginalPrice *int64   `json:"originalPrice" binding:"omitempty,min=0"`
	Discount      *int     `json:"discount" binding:"omitempty,min=0,max=100"`
	Rank          *string  `json:"rank"`
	LoginType     *string  `json:"loginType"`
	Status        *string  `json:"status"`
	Mythics       []string `json:"mythics"`
	Vehicles      []string `json:"vehicles"`
	Pets          []string `json:"pets"`
	Level         *int     `json:"level" binding:"omitempty,min=0"`
	RP            *int     `json:"rp" binding:"omitempty,min=0"`
	KD            *float64 `json:"kd" binding:"omitempty,min=0"`
	Matches       *int     `json:"matches" binding:"omitempty,min=0"`
	WinRate       *float64 `json:"winRate" binding:"omitempty,min=0,max=100"`
	IsHot         *bool    `json:"isHot"`
	IsLimited     *bool    `json:"isLimited"`
	IsExclusive   *bool    `json:"isExclusive"`
	Featured      *bool    `json:"featured"`
	Image         *string  `json:"image"`
	Description   *string  `json:"description"`
}

// DeleteProductResponse acknowledges a deletion
type DeleteProductResponse struct {
	Success bool `json:"success"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		PriceDisplay:  valueobject.FormatINR(p.Price),
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
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

func toRangeResponses(ranges []catalog.Range) []RangeResponse {
	out := make([]RangeResponse, len(ranges))
	for i, r := range ranges {
		out[i] = RangeResponse{Label: r.Label, Min: r.Min, Max: r.Max}
	}
	return out
}

func (r CreateProductRequest) attributes() catalog.ProductAttributes {
	return catalog.ProductAttributes{
		Title:         r.Title,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Discount:      r.Discount,
		Rank:          catalog.Rank(r.Rank),
		LoginType:     catalog.LoginType(r.LoginType),
		Status:        catalog.ProductStatus(r.Status),
		Mythics:       r.Mythics,
		Vehicles:      r.Vehicles,
		Pets:          r.Pets,
		Stats: catalog.Stats{
			Level:   r.Level,
			RP:      r.RP,
			KD:      r.KD,
			Matches: r.Matches,
			WinRate: r.WinRate,
		},
		Flags: catalog.Flags{
			IsHot:       r.IsHot,
			IsLimited:   r.IsLimited,
			IsExclusive: r.IsExclusive,
			Featured:    r.Featured,
		},
		Image:       r.Image,
		Description: r.Description,
	}
}

// patch builds the domain patch; stats and flags are merged onto current
func (r UpdateProductRequest) patch(current *catalog.Product) catalog.ProductPatch {
	patch := catalog.ProductPatch{
		Title:         r.Title,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Discount:      r.Discount,
		Mythics:       r.Mythics,
		Vehicles:      r.Vehicles,
		Pets:          r.Pets,
		Image:         r.Image,
		Description:   r.Description,
	}
	if r.Rank != nil {
		rank := catalog.Rank(*r.Rank)
		patch.Rank = &rank
	}
	if r.LoginType != nil {
		loginType := catalog.LoginType(*r.LoginType)
		patch.LoginType = &loginType
	}
	if r.Status != nil {
		status := catalog.ProductStatus(*r.Status)
		patch.Status = &status
	}

	if r.Level != nil || r.RP != nil || r.KD != nil || r.Matches != nil || r.WinRate != nil {
		stats := current.Stats
		setIf(&stats.Level, r.Level)
		setIf(&stats.RP, r.RP)
		setIf(&stats.KD, r.KD)
		setIf(&stats.Matches, r.Matches)
		setIf(&stats.WinRate, r.WinRate)
		patch.Stats = &stats
	}
	if r.IsHot != nil || r.IsLimited != nil || r.IsExclusive != nil || r.Featured != nil {
		flags := current.Flags
		setIf(&flags.IsHot, r.IsHot)
		setIf(&flags.IsLimited, r.IsLimited)
		setIf(&flags.IsExclusive, r.IsExclusive)
		setIf(&flags.Featured, r.Featured)
		patch.Flags = &flags
	}
	return patch
}

func setIf[T any](dst, src *T) {
	if src != nil {
		*dst = *src
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
