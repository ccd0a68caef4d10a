// Package manufacturertest provides in-memory collaborators for tests of the
// manufacturer service and the layers above it.
package manufacturertest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ibeer/internal/core/apperror"
	"ibeer/internal/core/tx"
	"ibeer/internal/domain"
	"ibeer/internal/domain/catalogs/manufacturer"
)

var _ manufacturer.Repository = (*Repository)(nil)

// Repository is a map-backed manufacturer.Repository.
// It mimics the Postgres repository: storage-assigned IDs, version checks,
// NOT_FOUND on deleting a missing row.
type Repository struct {
	mu     sync.Mutex
	rows   map[int64]manufacturer.Manufacturer
	nextID int64

	// Saves counts successful Save calls.
	Saves int

	// Err, when set, is returned by every method.
	Err error
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{rows: make(map[int64]manufacturer.Manufacturer)}
}

// Seed stores m as is (ID assigned when zero) without counting a save.
func (r *Repository) Seed(m manufacturer.Manufacturer) manufacturer.Manufacturer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == 0 {
		r.nextID++
		m.ID = r.nextID
	} else if m.ID > r.nextID {
		r.nextID = m.ID
	}
	if m.Version == 0 {
		m.Version = 1
	}
	r.rows[m.ID] = m
	return m
}

// Get returns the stored row, bypassing the error hook.
func (r *Repository) Get(id int64) (manufacturer.Manufacturer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	return m, ok
}

func (r *Repository) FindByID(ctx context.Context, id int64) (manufacturer.Manufacturer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return manufacturer.Manufacturer{}, r.Err
	}
	m, ok := r.rows[id]
	if !ok {
		return manufacturer.Manufacturer{}, apperror.NewNotFound(manufacturer.EntityName, id)
	}
	return m, nil
}

func (r *Repository) FindByIDForUpdate(ctx context.Context, id int64) (manufacturer.Manufacturer, error) {
	return r.FindByID(ctx, id)
}

func (r *Repository) FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[manufacturer.Manufacturer], error) {
	return r.list(page, func(manufacturer.Manufacturer) bool { return true })
}

func (r *Repository) FindAllByActive(ctx context.Context, page domain.PageRequest, active bool) (domain.Page[manufacturer.Manufacturer], error) {
	return r.list(page, func(m manufacturer.Manufacturer) bool { return m.Active == active })
}

func (r *Repository) FindIDByName(ctx context.Context, name string) (int64, bool, error) {
	return r.findName(name, 0)
}

func (r *Repository) FindIDByNameAndIDNot(ctx context.Context, name string, excludeID int64) (int64, bool, error) {
	return r.findName(name, excludeID)
}

func (r *Repository) Save(ctx context.Context, m manufacturer.Manufacturer) (manufacturer.Manufacturer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return manufacturer.Manufacturer{}, r.Err
	}

	for _, other := range r.rows {
		if other.Name == m.Name && other.ID != m.ID {
			return manufacturer.Manufacturer{}, apperror.NewDuplicate(manufacturer.EntityName, "name", m.Name)
		}
	}

	now := time.Now().UTC()
	if m.ID == 0 {
		r.nextID++
		m.ID = r.nextID
		m.Version = 1
		m.CreatedAt = now
		m.UpdatedAt = now
	} else {
		stored, ok := r.rows[m.ID]
		if !ok || stored.Version != m.Version {
			return manufacturer.Manufacturer{}, apperror.NewConcurrentModification(manufacturer.EntityName, m.ID)
		}
		m.Version++
		m.CreatedAt = stored.CreatedAt
		m.UpdatedAt = now
	}

	r.rows[m.ID] = m
	r.Saves++
	return m, nil
}

func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.rows[id]; !ok {
		return apperror.NewNotFound(manufacturer.EntityName, id)
	}
	delete(r.rows, id)
	return nil
}

func (r *Repository) findName(name string, excludeID int64) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, false, r.Err
	}
	for id, m := range r.rows {
		if m.Name == name && id != excludeID {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (r *Repository) list(page domain.PageRequest, keep func(manufacturer.Manufacturer) bool) (domain.Page[manufacturer.Manufacturer], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return domain.Page[manufacturer.Manufacturer]{}, r.Err
	}
	page = page.Normalize()

	var items []manufacturer.Manufacturer
	for _, m := range r.rows {
		if keep(m) {
			items = append(items, m)
		}
	}

	desc := strings.HasPrefix(page.OrderBy, "-")
	byID := strings.TrimLeft(page.OrderBy, "+-") == "id"
	sort.Slice(items, func(i, j int) bool {
		less := items[i].Name < items[j].Name
		if byID {
			less = items[i].ID < items[j].ID
		}
		if desc {
			return !less
		}
		return less
	})

	result := domain.Page[manufacturer.Manufacturer]{
		TotalCount: int64(len(items)),
		Page:       page.Page,
		Size:       page.Size,
		Items:      []manufacturer.Manufacturer{},
	}
	start := page.Offset()
	if start < len(items) {
		end := min(start+page.Size, len(items))
		result.Items = items[start:end]
	}
	return result, nil
}

// TxManager runs fn directly and counts how often it was asked to.
// Commit hooks run when fn succeeds, as after a real commit.
type TxManager struct {
	mu    sync.Mutex
	Calls int
}

// RunInTransaction implements tx.Manager.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	txCtx, hooks := tx.WithCommitHooks(ctx)
	if err := fn(txCtx); err != nil {
		return err
	}
	hooks.Run(ctx)
	return nil
}
