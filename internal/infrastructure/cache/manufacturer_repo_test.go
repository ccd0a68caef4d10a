package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ibeer/internal/core/apperror"
	"ibeer/internal/domain/catalogs/manufacturer"
	"ibeer/internal/domain/catalogs/manufacturer/manufacturertest"
	"ibeer/pkg/logger"
)

// countingRepo counts FindByID calls reaching storage.
type countingRepo struct {
	*manufacturertest.Repository
	finds    atomic.Int32
	delay    time.Duration
	canceled atomic.Bool
}

func (r *countingRepo) FindByID(ctx context.Context, id int64) (manufacturer.Manufacturer, error) {
	r.finds.Add(1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if ctx.Err() != nil {
		r.canceled.Store(true)
		return manufacturer.Manufacturer{}, ctx.Err()
	}
	return r.Repository.FindByID(ctx, id)
}

func setupCache(t *testing.T) (*ManufacturerRepository, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingRepo{Repository: manufacturertest.NewRepository()}
	return NewManufacturerRepository(inner, client, time.Minute), inner, mr
}

func testCtx() context.Context {
	return logger.WithLogger(context.Background(), logger.Nop())
}

func TestFindByID_MissThenHit(t *testing.T) {
	repo, inner, mr := setupCache(t)
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Heineken", Nationality: "Netherlands", Active: true})

	first, err := repo.FindByID(testCtx(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heineken", first.Name)
	assert.True(t, mr.Exists(manufacturerKey(seeded.ID)))
	assert.Equal(t, time.Minute, mr.TTL(manufacturerKey(seeded.ID)))

	second, err := repo.FindByID(testCtx(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, second.ID)
	assert.Equal(t, "Netherlands", second.Nationality)
	assert.Equal(t, seeded.Version, second.Version)
	assert.Equal(t, int32(1), inner.finds.Load())
}

func TestFindByID_NotFoundIsNotCached(t *testing.T) {
	repo, inner, mr := setupCache(t)

	_, err := repo.FindByID(testCtx(), 42)
	assert.True(t, apperror.IsNotFound(err))
	assert.False(t, mr.Exists(manufacturerKey(42)))

	_, err = repo.FindByID(testCtx(), 42)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, int32(2), inner.finds.Load())
}

func TestSave_Invalidates(t *testing.T) {
	repo, inner, mr := setupCache(t)
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Ambev", Active: true})

	cached, err := repo.FindByID(testCtx(), seeded.ID)
	require.NoError(t, err)

	cached.Name = "Ambev S.A."
	_, err = repo.Save(testCtx(), cached)
	require.NoError(t, err)
	assert.False(t, mr.Exists(manufacturerKey(seeded.ID)))

	fresh, err := repo.FindByID(testCtx(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ambev S.A.", fresh.Name)
	assert.Equal(t, 2, fresh.Version)
}

func TestSave_InvalidatesAfterCommit(t *testing.T) {
	repo, inner, mr := setupCache(t)
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Ambev", Active: true})
	key := manufacturerKey(seeded.ID)
	txm := &manufacturertest.TxManager{}

	err := txm.RunInTransaction(testCtx(), func(ctx context.Context) error {
		updated := seeded
		updated.Name = "Ambev S.A."
		if _, err := repo.Save(ctx, updated); err != nil {
			return err
		}
		// A concurrent miss before commit refills the entry.
		_, err := repo.FindByID(testCtx(), seeded.ID)
		require.NoError(t, err)
		assert.True(t, mr.Exists(key))
		return nil
	})

	require.NoError(t, err)
	assert.False(t, mr.Exists(key))
}

func TestDeleteByID_RolledBackKeepsEntry(t *testing.T) {
	repo, inner, mr := setupCache(t)
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Ambev", Active: true})
	_, err := repo.FindByID(testCtx(), seeded.ID)
	require.NoError(t, err)
	txm := &manufacturertest.TxManager{}
	boom := errors.New("later step failed")

	err = txm.RunInTransaction(testCtx(), func(ctx context.Context) error {
		require.NoError(t, repo.DeleteByID(ctx, seeded.ID))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, mr.Exists(manufacturerKey(seeded.ID)))
}

func TestSave_FailureKeepsEntry(t *testing.T) {
	repo, inner, mr := setupCache(t)
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Ambev", Active: true})
	_, err := repo.FindByID(testCtx(), seeded.ID)
	require.NoError(t, err)

	stale := seeded
	stale.Version = 7
	_, err = repo.Save(testCtx(), stale)

	assert.True(t, apperror.IsConcurrentModification(err))
	assert.True(t, mr.Exists(manufacturerKey(seeded.ID)))
}

func TestDeleteByID_Invalidates(t *testing.T) {
	repo, inner, mr := setupCache(t)
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Kirin", Active: true})
	_, err := repo.FindByID(testCtx(), seeded.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(testCtx(), seeded.ID))
	assert.False(t, mr.Exists(manufacturerKey(seeded.ID)))

	_, err = repo.FindByID(testCtx(), seeded.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestFindByIDForUpdate_BypassesCache(t *testing.T) {
	repo, inner, mr := setupCache(t)
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Asahi", Active: true})

	_, err := repo.FindByIDForUpdate(testCtx(), seeded.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists(manufacturerKey(seeded.ID)))
}

func TestFindByID_CorruptEntryFallsBack(t *testing.T) {
	repo, inner, mr := setupCache(t)
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Carlsberg", Active: true})
	require.NoError(t, mr.Set(manufacturerKey(seeded.ID), "{not json"))

	m, err := repo.FindByID(testCtx(), seeded.ID)

	require.NoError(t, err)
	assert.Equal(t, "Carlsberg", m.Name)
	assert.Equal(t, int32(1), inner.finds.Load())
}

func TestFindByID_RedisDownFallsBack(t *testing.T) {
	repo, inner, mr := setupCache(t)
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Guinness", Active: true})
	mr.Close()

	m, err := repo.FindByID(testCtx(), seeded.ID)

	require.NoError(t, err)
	assert.Equal(t, "Guinness", m.Name)
	require.NoError(t, repo.DeleteByID(testCtx(), seeded.ID))
}

func TestFindByID_CoalescesConcurrentMisses(t *testing.T) {
	repo, inner, _ := setupCache(t)
	inner.delay = 50 * time.Millisecond
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Modelo", Active: true})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := repo.FindByID(testCtx(), seeded.ID)
			assert.NoError(t, err)
			assert.Equal(t, "Modelo", m.Name)
		}()
	}
	wg.Wait()

	assert.Less(t, inner.finds.Load(), int32(8))
}

func TestFindByID_CanceledCallerDoesNotFailOthers(t *testing.T) {
	repo, inner, mr := setupCache(t)
	inner.delay = 100 * time.Millisecond
	seeded := inner.Seed(manufacturer.Manufacturer{Name: "Modelo", Active: true})

	firstCtx, cancel := context.WithTimeout(testCtx(), 10*time.Millisecond)
	defer cancel()
	firstErr := make(chan error, 1)
	go func() {
		_, err := repo.FindByID(firstCtx, seeded.ID)
		firstErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	m, err := repo.FindByID(testCtx(), seeded.ID)

	require.NoError(t, err)
	assert.Equal(t, "Modelo", m.Name)
	assert.ErrorIs(t, <-firstErr, context.DeadlineExceeded)
	assert.Equal(t, int32(1), inner.finds.Load())
	assert.False(t, inner.canceled.Load())
	assert.True(t, mr.Exists(manufacturerKey(seeded.ID)))
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewClient(context.Background(), mr.Addr())
	assert.Error(t, err)
}
