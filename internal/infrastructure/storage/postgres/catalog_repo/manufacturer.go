package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"ibeer/internal/core/apperror"
	"ibeer/internal/domain"
	"ibeer/internal/domain/catalogs/manufacturer"
	"ibeer/internal/infrastructure/storage/postgres"
)

const manufacturerTable = "cat_manufacturers"

var _ manufacturer.Repository = (*ManufacturerRepo)(nil)

// ManufacturerRepo implements manufacturer.Repository.
type ManufacturerRepo struct {
	*BaseCatalogRepo[manufacturer.Manufacturer]
}

// NewManufacturerRepo creates a new manufacturer repository.
func NewManufacturerRepo(db QuerierProvider) *ManufacturerRepo {
	return &ManufacturerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[manufacturer.Manufacturer](
			db,
			manufacturerTable,
			manufacturer.EntityName,
			postgres.ExtractDBColumns[manufacturer.Manufacturer](),
		),
	}
}

func (r *ManufacturerRepo) FindByID(ctx context.Context, id int64) (manufacturer.Manufacturer, error) {
	return r.GetByID(ctx, id)
}

func (r *ManufacturerRepo) FindByIDForUpdate(ctx context.Context, id int64) (manufacturer.Manufacturer, error) {
	return r.GetForUpdate(ctx, id)
}

func (r *ManufacturerRepo) FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[manufacturer.Manufacturer], error) {
	return r.List(ctx, r.baseSelect(), page)
}

func (r *ManufacturerRepo) FindAllByActive(ctx context.Context, page domain.PageRequest, active bool) (domain.Page[manufacturer.Manufacturer], error) {
	return r.List(ctx, r.activeSelect(active), page)
}

func (r *ManufacturerRepo) FindIDByName(ctx context.Context, name string) (int64, bool, error) {
	return r.findID(ctx, r.nameSelect(name, nil))
}

func (r *ManufacturerRepo) FindIDByNameAndIDNot(ctx context.Context, name string, excludeID int64) (int64, bool, error) {
	return r.findID(ctx, r.nameSelect(name, &excludeID))
}

// Save inserts new manufacturers and version-checks updates of existing ones.
func (r *ManufacturerRepo) Save(ctx context.Context, m manufacturer.Manufacturer) (manufacturer.Manufacturer, error) {
	data := postgres.WritableColumns(
		postgres.StructToMap(&m),
		r.selectCols,
		"id", "version", "created_at", "updated_at",
	)

	var (
		saved manufacturer.Manufacturer
		err   error
	)
	if m.IsNew() {
		saved, err = r.insert(ctx, data)
	} else {
		saved, err = r.update(ctx, m.ID, m.Version, data)
	}
	if err != nil {
		return saved, mapWriteError(err, m)
	}
	return saved, nil
}

func (r *ManufacturerRepo) DeleteByID(ctx context.Context, id int64) error {
	return r.Delete(ctx, id)
}

func (r *ManufacturerRepo) activeSelect(active bool) squirrel.SelectBuilder {
	return r.baseSelect().Where(squirrel.Eq{"active": active})
}

// nameSelect looks up the id holding name, optionally skipping excludeID.
func (r *ManufacturerRepo) nameSelect(name string, excludeID *int64) squirrel.SelectBuilder {
	q := r.Builder().
		Select("id").
		From(r.tableName).
		Where(squirrel.Eq{"name": name})
	if excludeID != nil {
		q = q.Where(squirrel.NotEq{"id": *excludeID})
	}
	return q.Limit(1)
}

// mapWriteError turns the unique name index violation into DUPLICATE.
func mapWriteError(err error, m manufacturer.Manufacturer) error {
	if apperror.IsAppError(err) {
		return err
	}
	if pgErrCode(err) == pgUniqueViolation {
		return apperror.NewDuplicate(manufacturer.EntityName, "name", m.Name).WithCause(err)
	}
	return fmt.Errorf("save manufacturer: %w", err)
}
