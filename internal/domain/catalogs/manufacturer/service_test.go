package manufacturer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ibeer/internal/core/apperror"
	"ibeer/internal/core/entity"
	"ibeer/internal/domain"
	"ibeer/internal/domain/catalogs/manufacturer"
	"ibeer/internal/domain/catalogs/manufacturer/manufacturertest"
	"ibeer/pkg/logger"
)

func newService(t *testing.T) (*manufacturer.Service, *manufacturertest.Repository, *manufacturertest.TxManager) {
	t.Helper()
	repo := manufacturertest.NewRepository()
	txm := &manufacturertest.TxManager{}
	return manufacturer.NewService(repo, txm), repo, txm
}

func testCtx() context.Context {
	return logger.WithLogger(context.Background(), logger.Nop())
}

func ptr[T any](v T) *T { return &v }

func TestService_Create(t *testing.T) {
	svc, repo, txm := newService(t)

	resp, err := svc.Create(testCtx(), manufacturer.DTO{Name: "  Heineken ", Nationality: "Dutch"})
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Heineken", resp.Name)
	assert.Equal(t, "Dutch", resp.Nationality)
	assert.True(t, resp.Active)
	assert.Equal(t, 1, resp.Version)
	assert.Equal(t, 1, repo.Saves)
	assert.Equal(t, 1, txm.Calls)
}

func TestService_Create_DuplicateName(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := testCtx()

	_, err := svc.Create(ctx, manufacturer.DTO{Name: "Ambev"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, manufacturer.DTO{Name: "Ambev"})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
	assert.Equal(t, 1, repo.Saves, "no write after a failed duplicate check")
}

func TestService_Create_IgnoresIncomingID(t *testing.T) {
	svc, repo, _ := newService(t)
	existing := repo.Seed(manufacturer.Manufacturer{Name: "Ambev", Active: true})

	// An ID on the DTO must not let the caller exclude a record from the check.
	_, err := svc.Create(testCtx(), manufacturer.DTO{ID: ptr(existing.ID), Name: "Ambev"})
	assert.True(t, apperror.IsDuplicate(err))
}

func TestService_Create_ExplicitInactive(t *testing.T) {
	svc, _, _ := newService(t)

	resp, err := svc.Create(testCtx(), manufacturer.DTO{Name: "Kirin", Active: ptr(false)})
	require.NoError(t, err)
	assert.False(t, resp.Active)
}

func TestService_Create_Validation(t *testing.T) {
	svc, repo, txm := newService(t)

	_, err := svc.Create(testCtx(), manufacturer.DTO{Name: "   "})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "name", appErr.Details["field"])
	assert.Equal(t, 0, repo.Saves)
	assert.Equal(t, 0, txm.Calls)
}

func TestService_Update_SameNameSucceeds(t *testing.T) {
	svc, repo, _ := newService(t)
	e := repo.Seed(manufacturer.Manufacturer{Name: "Heineken", Nationality: "Dutch", Active: true})

	resp, err := svc.Update(testCtx(), manufacturer.DTO{ID: ptr(e.ID), Name: "Heineken", Nationality: "NL"})
	require.NoError(t, err)

	assert.Equal(t, e.ID, resp.ID)
	assert.Equal(t, "NL", resp.Nationality)
	assert.Equal(t, 2, resp.Version)
	assert.True(t, resp.Active, "flags not carried by the DTO are preserved")
}

func TestService_Update_NameTakenByOther(t *testing.T) {
	svc, repo, _ := newService(t)
	e1 := repo.Seed(manufacturer.Manufacturer{Name: "Heineken", Active: true})
	repo.Seed(manufacturer.Manufacturer{Name: "Ambev", Active: true})

	_, err := svc.Update(testCtx(), manufacturer.DTO{ID: ptr(e1.ID), Name: "Ambev"})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))

	stored, ok := repo.Get(e1.ID)
	require.True(t, ok)
	assert.Equal(t, e1, stored, "E1 is left unmodified")
	assert.Equal(t, 0, repo.Saves)
}

func TestService_Update_NotFound(t *testing.T) {
	svc, repo, _ := newService(t)

	_, err := svc.Update(testCtx(), manufacturer.DTO{ID: ptr(int64(404)), Name: "Ghost"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, manufacturer.EntityName, appErr.Details["entity"])
	assert.Equal(t, 0, repo.Saves)
}

func TestService_Update_RequiresID(t *testing.T) {
	svc, _, txm := newService(t)

	_, err := svc.Update(testCtx(), manufacturer.DTO{Name: "Heineken"})
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, txm.Calls)
}

func TestService_Update_VersionMismatch(t *testing.T) {
	svc, repo, _ := newService(t)
	e := repo.Seed(manufacturer.Manufacturer{BaseEntity: entity.BaseEntity{Version: 3}, Name: "Heineken", Active: true})

	_, err := svc.Update(testCtx(), manufacturer.DTO{ID: ptr(e.ID), Name: "Heineken", Version: ptr(2)})
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrentModification(err))
	assert.Equal(t, 0, repo.Saves)

	resp, err := svc.Update(testCtx(), manufacturer.DTO{ID: ptr(e.ID), Name: "Heineken", Version: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Version)
}

func TestService_GetByID(t *testing.T) {
	svc, repo, _ := newService(t)
	e := repo.Seed(manufacturer.Manufacturer{Name: "Heineken", Nationality: "Dutch", Active: true})

	resp, err := svc.GetByID(testCtx(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, manufacturer.Mapper{}.ToResponse(e), resp)

	_, err = svc.GetByID(testCtx(), e.ID+100)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_GetByID_LogsNotFound(t *testing.T) {
	svc, _, _ := newService(t)
	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.WithLogger(context.Background(), &logger.Logger{SugaredLogger: zap.New(core).Sugar()})

	_, err := svc.GetByID(ctx, 404)
	require.True(t, apperror.IsNotFound(err))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "getById", fields["m"])
	assert.Equal(t, "error", fields["status"])
	assert.Equal(t, mustAppErr(t, err).Message, fields["message"])
	assert.EqualValues(t, 404, fields["id"])
}

func TestService_GetByID_InfrastructureErrorNotLoggedAsNotFound(t *testing.T) {
	svc, repo, _ := newService(t)
	repo.Err = errors.New("connection refused")
	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.WithLogger(context.Background(), &logger.Logger{SugaredLogger: zap.New(core).Sugar()})

	_, err := svc.GetByID(ctx, 1)

	require.Error(t, err)
	assert.Zero(t, logs.FilterMessage("entity not found").Len())
}

func TestService_GetByID_InfrastructureError(t *testing.T) {
	svc, repo, _ := newService(t)
	repo.Err = errors.New("connection refused")

	_, err := svc.GetByID(testCtx(), 1)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInternal, mustAppErr(t, err).Code)
}

func TestService_GetAllAndActive(t *testing.T) {
	svc, repo, _ := newService(t)
	repo.Seed(manufacturer.Manufacturer{Name: "Ambev", Active: true})
	repo.Seed(manufacturer.Manufacturer{Name: "Brahma", Active: false})
	repo.Seed(manufacturer.Manufacturer{Name: "Heineken", Active: true})

	all, err := svc.GetAll(testCtx(), domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalCount)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, domain.DefaultPageSize, all.Size)

	active, err := svc.GetAllActive(testCtx(), domain.PageRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), active.TotalCount)
	for _, item := range active.Items {
		assert.True(t, item.Active, item.Name)
	}
}

func TestService_GetAll_Paging(t *testing.T) {
	svc, repo, _ := newService(t)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		repo.Seed(manufacturer.Manufacturer{Name: name, Active: true})
	}

	page, err := svc.GetAll(testCtx(), domain.PageRequest{Page: 1, Size: 2, OrderBy: "name"})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "C", page.Items[0].Name)
	assert.Equal(t, "D", page.Items[1].Name)
	assert.Equal(t, 3, page.TotalPages())
}

func TestService_DeleteByID(t *testing.T) {
	svc, repo, txm := newService(t)
	e := repo.Seed(manufacturer.Manufacturer{Name: "Heineken", Active: true})

	require.NoError(t, svc.DeleteByID(testCtx(), e.ID))
	_, ok := repo.Get(e.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, txm.Calls)

	err := svc.DeleteByID(testCtx(), e.ID)
	assert.True(t, apperror.IsNotFound(err), "repository outcome is passed through")
}

func TestService_HeinekenScenario(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := testCtx()

	first, err := svc.Create(ctx, manufacturer.DTO{Name: "Heineken"})
	require.NoError(t, err)
	assert.Equal(t, "Heineken", first.Name)

	_, err = svc.Create(ctx, manufacturer.DTO{Name: "Heineken"})
	assert.True(t, apperror.IsDuplicate(err))

	_, err = svc.Update(ctx, manufacturer.DTO{ID: ptr(first.ID), Name: "Heineken"})
	require.NoError(t, err)

	renamed, err := svc.Update(ctx, manufacturer.DTO{ID: ptr(first.ID), Name: "NonExistentOther"})
	require.NoError(t, err)
	assert.Equal(t, "NonExistentOther", renamed.Name)
}

func mustAppErr(t *testing.T, err error) *apperror.AppError {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr
}
