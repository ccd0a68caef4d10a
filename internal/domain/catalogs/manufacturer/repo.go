package manufacturer

import (
	"context"

	"ibeer/internal/domain"
)

// Repository defines the interface for Manufacturer persistence.
type Repository interface {
	// FindByID returns a NOT_FOUND AppError when no row matches.
	FindByID(ctx context.Context, id int64) (Manufacturer, error)

	// FindByIDForUpdate is FindByID with a row lock held until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (Manufacturer, error)

	FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[Manufacturer], error)
	FindAllByActive(ctx context.Context, page domain.PageRequest, active bool) (domain.Page[Manufacturer], error)

	// FindIDByName reports the id of the manufacturer holding name, if any.
	FindIDByName(ctx context.Context, name string) (int64, bool, error)

	// FindIDByNameAndIDNot is FindIDByName ignoring the manufacturer with excludeID.
	FindIDByNameAndIDNot(ctx context.Context, name string, excludeID int64) (int64, bool, error)

	// Save inserts when m.ID is zero and updates otherwise, returning the stored row.
	// Updates are version-checked.
	Save(ctx context.Context, m Manufacturer) (Manufacturer, error)

	DeleteByID(ctx context.Context, id int64) error
}
