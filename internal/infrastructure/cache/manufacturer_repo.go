package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"ibeer/internal/core/tx"
	"ibeer/internal/domain/catalogs/manufacturer"
	"ibeer/pkg/logger"
)

// DefaultTTL is used when NewManufacturerRepository gets a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// loadTimeout bounds a shared storage load on a cache miss.
const loadTimeout = 10 * time.Second

const manufacturerKeyPrefix = "manufacturer:"

var _ manufacturer.Repository = (*ManufacturerRepository)(nil)

// ManufacturerRepository is a read-through cache over another manufacturer.Repository.
// Only FindByID is cached; writes drop the cached entry once their transaction commits.
// Redis failures are logged and the inner repository answers instead.
type ManufacturerRepository struct {
	manufacturer.Repository

	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewManufacturerRepository wraps inner with a Redis cache.
func NewManufacturerRepository(inner manufacturer.Repository, client *redis.Client, ttl time.Duration) *ManufacturerRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ManufacturerRepository{
		Repository: inner,
		client:     client,
		ttl:        ttl,
	}
}

func manufacturerKey(id int64) string {
	return manufacturerKeyPrefix + strconv.FormatInt(id, 10)
}

// FindByID serves from Redis when possible. Concurrent misses for one id share a single load.
// The shared load runs detached from any one caller, so a caller that gives up
// only abandons its own wait.
func (r *ManufacturerRepository) FindByID(ctx context.Context, id int64) (manufacturer.Manufacturer, error) {
	key := manufacturerKey(id)

	if m, ok := r.get(ctx, key); ok {
		return m, nil
	}

	ch := r.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		m, err := r.Repository.FindByID(loadCtx, id)
		if err != nil {
			return m, err
		}
		r.set(loadCtx, key, m)
		return m, nil
	})

	select {
	case <-ctx.Done():
		return manufacturer.Manufacturer{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return manufacturer.Manufacturer{}, res.Err
		}
		return res.Val.(manufacturer.Manufacturer), nil
	}
}

func (r *ManufacturerRepository) Save(ctx context.Context, m manufacturer.Manufacturer) (manufacturer.Manufacturer, error) {
	saved, err := r.Repository.Save(ctx, m)
	if err != nil {
		return saved, err
	}
	r.invalidateAfterCommit(ctx, saved.ID)
	return saved, nil
}

func (r *ManufacturerRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.Repository.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidateAfterCommit(ctx, id)
	return nil
}

// FindByIDForUpdate always reads the locked row from storage.
func (r *ManufacturerRepository) FindByIDForUpdate(ctx context.Context, id int64) (manufacturer.Manufacturer, error) {
	return r.Repository.FindByIDForUpdate(ctx, id)
}

func (r *ManufacturerRepository) get(ctx context.Context, key string) (manufacturer.Manufacturer, bool) {
	var m manufacturer.Manufacturer

	payload, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return m, false
	}
	if err != nil {
		logger.Component(ctx, "cache").Warnw("cache read failed", "key", key, "error", err)
		return m, false
	}

	if err := json.Unmarshal(payload, &m); err != nil {
		logger.Component(ctx, "cache").Warnw("cache entry is corrupt", "key", key, "error", err)
		r.client.Del(ctx, key)
		return m, false
	}
	return m, true
}

func (r *ManufacturerRepository) set(ctx context.Context, key string, m manufacturer.Manufacturer) {
	payload, err := json.Marshal(m)
	if err != nil {
		logger.Component(ctx, "cache").Warnw("cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		logger.Component(ctx, "cache").Warnw("cache write failed", "key", key, "error", err)
	}
}

// invalidateAfterCommit drops the entry once the write is visible to other readers.
// Dropping it earlier would let a concurrent miss cache the pre-commit row.
func (r *ManufacturerRepository) invalidateAfterCommit(ctx context.Context, id int64) {
	tx.AfterCommit(ctx, func(ctx context.Context) {
		r.invalidate(ctx, id)
	})
}

func (r *ManufacturerRepository) invalidate(ctx context.Context, id int64) {
	key := manufacturerKey(id)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.Component(ctx, "cache").Warnw("cache invalidation failed", "key", key, "error", err)
	}
}
