package manufacturer

import (
	"ibeer/internal/core/entity"
)

// Mapper converts between DTOs, entities and responses.
// It holds no state; every method returns a fresh value.
type Mapper struct{}

// ToEntity builds a not-yet-persisted entity. The DTO's ID is ignored.
func (Mapper) ToEntity(dto DTO) Manufacturer {
	m := Manufacturer{
		BaseEntity:  entity.NewBaseEntity(),
		Name:        dto.Name,
		Nationality: dto.Nationality,
		Active:      true,
	}
	if dto.Active != nil {
		m.Active = *dto.Active
	}
	return m
}

// ToResponse projects an entity into the response shape.
func (Mapper) ToResponse(m Manufacturer) Response {
	return Response{
		ID:          m.ID,
		Name:        m.Name,
		Nationality: m.Nationality,
		Active:      m.Active,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Merge returns current with the DTO's fields applied.
// ID, version and timestamps are kept; Active changes only when the DTO carries it.
func (Mapper) Merge(dto DTO, current Manufacturer) Manufacturer {
	merged := current
	merged.Name = dto.Name
	merged.Nationality = dto.Nationality
	if dto.Active != nil {
		merged.Active = *dto.Active
	}
	return merged
}
