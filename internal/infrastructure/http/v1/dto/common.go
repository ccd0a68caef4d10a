// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"ibeer/internal/domain"
)

// --- Pagination ---

// PaginationRequest contains pagination parameters.
// Page is zero-based.
type PaginationRequest struct {
	Page    int    `form:"page" binding:"min=0"`
	Size    int    `form:"size" binding:"min=0,max=100"`
	OrderBy string `form:"orderBy"`
}

// ToPageRequest converts query parameters into a domain page request.
func (p PaginationRequest) ToPageRequest() domain.PageRequest {
	req := domain.DefaultPageRequest()
	req.Page = p.Page
	if p.Size > 0 {
		req.Size = p.Size
	}
	if p.OrderBy != "" {
		req.OrderBy = p.OrderBy
	}
	return req.Normalize()
}

// PageResponse wraps one page of results.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"totalPages"`
}

// FromPage creates PageResponse from domain.Page.
func FromPage[T any](p domain.Page[T]) PageResponse[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{
		Items:      items,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: p.TotalPages(),
	}
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
