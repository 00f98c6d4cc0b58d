package catalog

import (
	"strings"
)

// All is the sentinel filter value that disables an exact-match filter
const All = "All"

// Range is an inclusive numeric range. A nil Max means unbounded.
type Range struct {
	Label string
	Min   int64
	Max   *int64
}

// BoundedRange creates a range with both bounds
func BoundedRange(label string, min, max int64) Range {
	return Range{Label: label, Min: min, Max: &max}
}

// OpenRange creates a range with no upper bound
func OpenRange(label string, min int64) Range {
	return Range{Label: label, Min: min}
}

// Contains reports whether v lies inside the range, bounds included
func (r Range) Contains(v int64) bool {
	if v < r.Min {
		return false
	}
	return r.Max == nil || v <= *r.Max
}

// IsUnbounded reports whether the range accepts every non-negative value
func (r Range) IsUnbounded() bool {
	return r.Min <= 0 && r.Max == nil
}

// SortKey selects the ordering of a product listing
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRank      SortKey = "rank"
	SortMythics   SortKey = "mythics"
	SortLevel     SortKey = "level"
	SortKD        SortKey = "kd"
	SortWinRate   SortKey = "winRate"
)

// SortKeys lists every supported sort key
var SortKeys = []SortKey{
	SortDefault,
	SortPriceLow,
	SortPriceHigh,
	SortRank,
	SortMythics,
	SortLevel,
	SortKD,
	SortWinRate,
}

// IsValid checks if the sort key is supported
func (k SortKey) IsValid() bool {
	for _, key := range SortKeys {
		if key == k {
			return true
		}
	}
	return false
}

// Criteria is a set of catalog filters plus an optional sort.
// Empty string and All disable an exact-match filter; nil disables a range.
type Criteria struct {
	Search      string
	Rank        string
	LoginType   string
	Status      string
	PriceRange  *Range
	MythicCount *Range
	SortBy      SortKey
}

// DefaultCriteria returns criteria that match the whole catalog in source order
func DefaultCriteria() Criteria {
	return Criteria{
		Rank:      All,
		LoginType: All,
		Status:    All,
		SortBy:    SortDefault,
	}
}

// IsEmpty reports whether the criteria select every product
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Search) == "" &&
		isAll(c.Rank) && isAll(c.LoginType) && isAll(c.Status) &&
		(c.PriceRange == nil || c.PriceRange.IsUnbounded()) &&
		(c.MythicCount == nil || c.MythicCount.IsUnbounded())
}

func isAll(v string) bool {
	return v == "" || v == All
}
