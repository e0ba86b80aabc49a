package domain

import "math"

// PaginationParams carries page/limit values from the HTTP layer to the repo
// layer. Page is 1-indexed. Limit is capped at MaxPageLimit.
type PaginationParams struct {
	Page  int
	Limit int
}

// MaxPageLimit bounds a single page of buses.
const MaxPageLimit = 100

// MaxPage is the largest page number for which Offset fits in an int.
const MaxPage = math.MaxInt / MaxPageLimit

// NewPaginationParams builds a PaginationParams from optional query values.
// Nil pointers fall back to page=1, limit=20. Page is capped at MaxPage.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
// It is never negative.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Window returns the [start, end) bounds of this page within a result set
// of n items, for stores that page in memory.
func (p PaginationParams) Window(n int) (start, end int) {
	start = min(p.Offset(), n)
	end = start + min(max(p.Limit, 0), n-start)
	return start, end
}
