package catalog

import (
	"sort"
	"strings"
)

// Apply filters and sorts products according to the criteria.
// The input slice is never modified. Filters run in a fixed order: search,
// rank, login type, status, price range, mythic count. Sorting is stable, so
// products that compare equal keep their filtered order; an unknown or
// default sort key leaves the filtered order untouched.
func Apply(products []Product, c Criteria) []Product {
	result := make([]Product, 0, len(products))
	for i := range products {
		if Matches(&products[i], c) {
			result = append(result, products[i])
		}
	}
	Sort(result, c.SortBy)
	return result
}

// Matches reports whether a single product satisfies every filter in c
func Matches(p *Product, c Criteria) bool {
	if term := strings.ToLower(strings.TrimSpace(c.Search)); term != "" && !matchesSearch(p, term) {
		return false
	}
	if !isAll(c.Rank) && string(p.Rank) != c.Rank {
		return false
	}
	if !isAll(c.LoginType) && string(p.LoginType) != c.LoginType {
		return false
	}
	if !isAll(c.Status) && string(p.Status) != c.Status {
		return false
	}
	if c.PriceRange != nil && !c.PriceRange.Contains(p.Price) {
		return false
	}
	if c.MythicCount != nil && !c.MythicCount.Contains(int64(p.MythicCount())) {
		return false
	}
	return true
}

func matchesSearch(p *Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(string(p.Rank)), term) {
		return true
	}
	for _, mythic := range p.Mythics {
		if strings.Contains(strings.ToLower(mythic), term) {
			return true
		}
	}
	return false
}

// Sort orders products in place by the given key
func Sort(products []Product, key SortKey) {
	less := lessFunc(products, key)
	if less == nil {
		return
	}
	sort.SliceStable(products, less)
}

func lessFunc(p []Product, key SortKey) func(i, j int) bool {
	switch key {
	case SortPriceLow:
		return func(i, j int) bool { return p[i].Price < p[j].Price }
	case SortPriceHigh:
		return func(i, j int) bool { return p[i].Price > p[j].Price }
	case SortRank:
		return func(i, j int) bool { return p[i].Rank.Position() < p[j].Rank.Position() }
	case SortMythics:
		return func(i, j int) bool { return p[i].MythicCount() > p[j].MythicCount() }
	case SortLevel:
		return func(i, j int) bool { return p[i].Stats.Level > p[j].Stats.Level }
	case SortKD:
		return func(i, j int) bool { return p[i].Stats.KD > p[j].Stats.KD }
	case SortWinRate:
		return func(i, j int) bool { return p[i].Stats.WinRate > p[j].Stats.WinRate }
	default:
		return nil
	}
}

// Page returns the slice of products for a 1-based page of size limit.
// Out of range pages yield an empty slice.
func Page(products []Product, page, limit int) []Product {
	if page < 1 || limit < 1 {
		return []Product{}
	}
	start := (page - 1) * limit
	if start >= len(products) {
		return []Product{}
	}
	end := min(start+limit, len(products))
	return products[start:end]
}
