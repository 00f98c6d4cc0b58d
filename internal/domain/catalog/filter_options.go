package catalog

// FilterOptions are the choices offered by the catalog filter bar.
// Every list starts with the All sentinel.
type FilterOptions struct {
	Ranks        []string
	LoginTypes   []string
	Statuses     []string
	PriceRanges  []Range
	MythicCounts []Range
}

// DefaultFilterOptions returns the storefront filter choices
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Ranks: []string{
			All,
			string(RankConqueror),
			string(RankAce),
			string(RankCrown),
			string(RankDiamond),
			string(RankPlatinum),
			string(RankGold),
			string(RankSilver),
			string(RankBronze),
		},
		LoginTypes: []string{All, string(LoginTypeFacebook), string(LoginTypeGoogle), string(LoginTypeGuest)},
		Statuses:   []string{All, string(ProductStatusAvailable), string(ProductStatusSold), string(ProductStatusReserved)},
		PriceRanges: []Range{
			OpenRange(All, 0),
			BoundedRange("Under ₹1000", 0, 1000),
			BoundedRange("₹1000 - ₹2000", 1000, 2000),
			BoundedRange("₹2000 - ₹3000", 2000, 3000),
			OpenRange("Above ₹3000", 3000),
		},
		MythicCounts: []Range{
			OpenRange(All, 0),
			BoundedRange("1-2 Mythics", 1, 2),
			BoundedRange("3-4 Mythics", 3, 4),
			OpenRange("5+ Mythics", 5),
		},
	}
}

// PriceRange looks up a price range by label
func (o FilterOptions) PriceRange(label string) (Range, bool) {
	return findRange(o.PriceRanges, label)
}

// MythicCount looks up a mythic count range by label
func (o FilterOptions) MythicCount(label string) (Range, bool) {
	return findRange(o.MythicCounts, label)
}

func findRange(ranges []Range, label string) (Range, bool) {
	for _, r := range ranges {
		if r.Label == label {
			return r, true
		}
	}
	return Range{}, false
}
