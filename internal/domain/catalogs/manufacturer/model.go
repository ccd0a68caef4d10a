// Package manufacturer provides the Manufacturer catalog: beer producers
// referenced by the rest of the catalog. Names are unique among live records.
package manufacturer

import (
	"context"

	"ibeer/internal/core/apperror"
	"ibeer/internal/core/entity"
)

// EntityName is used in error messages and details.
const EntityName = "manufacturer"

// Manufacturer is the persisted entity.
type Manufacturer struct {
	entity.BaseEntity

	// Name is the display name, unique among manufacturers
	Name string `db:"name" json:"name"`

	// Nationality is the country of origin, free-form
	Nationality string `db:"nationality" json:"nationality"`

	// Active marks manufacturers offered to new listings
	Active bool `db:"active" json:"active"`
}

// Validate implements entity.Validatable interface.
func (m *Manufacturer) Validate(ctx context.Context) error {
	if m.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
