package shared

// PageInfo describes where a page sits inside a result set.
// NextPage and PrevPage are nil when there is no such page.
type PageInfo struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	StartIndex   int  `json:"startIndex"`
	EndIndex     int  `json:"endIndex"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
	NextPage     *int `json:"nextPage"`
	PrevPage     *int `json:"prevPage"`
}

// NewPageInfo computes pagination info for total items shown limit per page.
// Non-positive page and limit fall back to 1 and 12.
func NewPageInfo(total, page, limit int) PageInfo {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	pages := totalPages(total, limit)
	start := (page - 1) * limit
	end := min(start+limit, total)
	if end < start {
		end = start
	}

	info := PageInfo{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
		StartIndex:   start,
		EndIndex:     end,
		HasNextPage:  page < pages,
		HasPrevPage:  page > 1,
	}
	if info.HasNextPage {
		next := page + 1
		info.NextPage = &next
	}
	if info.HasPrevPage {
		prev := page - 1
		info.PrevPage = &prev
	}
	return info
}

// PageEllipsis marks a gap in the output of VisiblePages
const PageEllipsis = 0

// VisiblePages returns the page numbers to render around current: always the
// first and last page, delta pages either side of current, and PageEllipsis
// where pages are skipped. It returns nil when there is at most one page.
func VisiblePages(current, total, delta int) []int {
	if total <= 1 {
		return nil
	}
	pages := []int{1}
	if current-delta > 2 {
		pages = append(pages, PageEllipsis)
	}
	for i := max(2, current-delta); i <= min(total-1, current+delta); i++ {
		pages = append(pages, i)
	}
	if current+delta < total-1 {
		pages = append(pages, PageEllipsis)
	}
	return append(pages, total)
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}
