// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"ibeer/internal/core/apperror"
	"ibeer/internal/domain"
	"ibeer/internal/infrastructure/storage/postgres"
)

// PostgreSQL error codes the repositories react to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// QuerierProvider hands out the querier for ctx: the active transaction or the pool.
// *postgres.TxManager implements it.
type QuerierProvider interface {
	GetQuerier(ctx context.Context) postgres.Querier
}

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T any] struct {
	db         QuerierProvider
	tableName  string
	entityName string
	selectCols []string
}

// NewBaseCatalogRepo creates a new base catalog repository.
// entityName is what NOT_FOUND and conflict errors report.
func NewBaseCatalogRepo[T any](db QuerierProvider, tableName, entityName string, selectCols []string) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		db:         db,
		tableName:  tableName,
		entityName: entityName,
		selectCols: selectCols,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.db.GetQuerier(ctx)
}

// baseSelect creates a SELECT builder over all entity columns.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

func (r *BaseCatalogRepo[T]) returning() string {
	return "RETURNING " + strings.Join(r.selectCols, ", ")
}

// getOne runs q and scans a single row. notFoundKey goes into the NOT_FOUND details.
func (r *BaseCatalogRepo[T]) getOne(ctx context.Context, q squirrel.Sqlizer, notFoundKey any) (T, error) {
	var entity T

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, notFoundKey)
		}
		return entity, fmt.Errorf("get %s: %w", r.tableName, err)
	}

	return entity, nil
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID int64) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": entityID}).
		Limit(1)
	return r.getOne(ctx, q, entityID)
}

// GetForUpdate retrieves entity by ID with row lock.
func (r *BaseCatalogRepo[T]) GetForUpdate(ctx context.Context, entityID int64) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": entityID}).
		Suffix("FOR UPDATE")
	return r.getOne(ctx, q, entityID)
}

// findID returns the id selected by q, if a row matches.
func (r *BaseCatalogRepo[T]) findID(ctx context.Context, q squirrel.SelectBuilder) (int64, bool, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build query: %w", err)
	}

	var found int64
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find id in %s: %w", r.tableName, err)
	}
	return found, true, nil
}

// List runs q with count, ordering and pagination applied.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, q squirrel.SelectBuilder, page domain.PageRequest) (domain.Page[T], error) {
	page = page.Normalize()
	result := domain.Page[T]{
		Items: []T{},
		Page:  page.Page,
		Size:  page.Size,
	}

	orderBy, err := r.parseOrderBy(page.OrderBy)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", r.tableName, err)
	}
	if result.TotalCount == 0 {
		return result, nil
	}

	sql, args, err := q.
		OrderBy(orderBy).
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.tableName, err)
	}

	return result, nil
}

// insert stores data and returns the row as written by the database.
func (r *BaseCatalogRepo[T]) insert(ctx context.Context, data map[string]any) (T, error) {
	var entity T

	sql, args, err := r.Builder().
		Insert(r.tableName).
		SetMap(data).
		Suffix(r.returning()).
		ToSql()
	if err != nil {
		return entity, fmt.Errorf("build insert: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &entity, sql, args...); err != nil {
		return entity, fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return entity, nil
}

// update writes data with optimistic locking: the row must still carry version.
func (r *BaseCatalogRepo[T]) update(ctx context.Context, entityID int64, version int, data map[string]any) (T, error) {
	var entity T

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": entityID, "version": version}).
		Suffix(r.returning()).
		ToSql()
	if err != nil {
		return entity, fmt.Errorf("build update: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewConcurrentModification(r.entityName, entityID)
		}
		return entity, fmt.Errorf("update %s: %w", r.tableName, err)
	}
	return entity, nil
}

// Delete performs physical removal from the database.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID int64) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return apperror.NewConflict("cannot delete: record is referenced by other catalog entries").
				WithDetail("entity", r.entityName).
				WithDetail("id", entityID).
				WithCause(err)
		}
		return fmt.Errorf("execute delete %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID)
	}

	return nil
}

func (r *BaseCatalogRepo[T]) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(r.selectCols))
	for _, col := range r.selectCols {
		allowed[col] = struct{}{}
	}

	if orderBy == "" {
		return "name ASC, id ASC", nil
	}

	// Support "-field" for DESC.
	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	// id as tie-breaker keeps pages stable.
	if field == "id" {
		return "id " + direction, nil
	}
	return field + " " + direction + ", id ASC", nil
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
