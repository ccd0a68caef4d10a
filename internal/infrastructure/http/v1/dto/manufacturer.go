package dto

import (
	"ibeer/internal/domain/catalogs/manufacturer"
)

// --- Request DTOs ---

// CreateManufacturerRequest is the request body for creating a manufacturer.
type CreateManufacturerRequest struct {
	Name        string `json:"name" binding:"required"`
	Nationality string `json:"nationality"`
	Active      *bool  `json:"active"`
}

// ToDTO converts the request to the service input.
func (r *CreateManufacturerRequest) ToDTO() manufacturer.DTO {
	return manufacturer.DTO{
		Name:        r.Name,
		Nationality: r.Nationality,
		Active:      r.Active,
	}
}

// UpdateManufacturerRequest is the request body for updating a manufacturer.
// Version is optional; when sent it must match the stored one.
type UpdateManufacturerRequest struct {
	Name        string `json:"name" binding:"required"`
	Nationality string `json:"nationality"`
	Active      *bool  `json:"active"`
	Version     *int   `json:"version" binding:"omitempty,min=1"`
}

// ToDTO converts the request to the service input for the manufacturer with id.
func (r *UpdateManufacturerRequest) ToDTO(id int64) manufacturer.DTO {
	return manufacturer.DTO{
		ID:          &id,
		Name:        r.Name,
		Nationality: r.Nationality,
		Active:      r.Active,
		Version:     r.Version,
	}
}
