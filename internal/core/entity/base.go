// Package entity provides core domain entities.
package entity

import (
	"context"
	"time"
)

// Validatable is implemented by values that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseEntity contains the storage-managed fields shared by catalog entities.
type BaseEntity struct {
	// ID is the primary key, assigned by storage on insert (BIGSERIAL)
	ID int64 `db:"id" json:"id"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a BaseEntity that has not been persisted yet.
func NewBaseEntity() BaseEntity {
	return BaseEntity{Version: 1}
}

// IsNew reports whether storage has not assigned an ID yet.
func (b BaseEntity) IsNew() bool {
	return b.ID == 0
}
