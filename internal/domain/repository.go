// Package domain provides core business logic interfaces and types.
package domain

import "math"

// --- Pagination ---

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps Page*Size within int.
	MaxPage = math.MaxInt / MaxPageSize
)

// PageRequest describes which slice of a listing the caller wants.
type PageRequest struct {
	// Page is the zero-based page index
	Page int

	// Size is the number of items per page
	Size int

	// OrderBy specifies sorting (e.g., "name", "-created_at").
	// Allowed columns are decided by the repository.
	OrderBy string
}

// DefaultPageRequest returns sensible defaults.
func DefaultPageRequest() PageRequest {
	return PageRequest{
		Size:    DefaultPageSize,
		OrderBy: "name",
	}
}

// Normalize clamps page and size into their valid ranges.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset calculates SQL offset.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page contains one page of results plus the total count.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
}

// TotalPages returns how many pages TotalCount spans.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	pages := int(p.TotalCount) / p.Size
	if int(p.TotalCount)%p.Size > 0 {
		pages++
	}
	return pages
}

// MapPage converts every item of a page, keeping the paging metadata.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	items := make([]R, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[R]{
		Items:      items,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		Size:       p.Size,
	}
}
