package manufacturer

import (
	"context"
	"fmt"

	"ibeer/internal/core/apperror"
	"ibeer/internal/core/tx"
	"ibeer/internal/domain"
	"ibeer/pkg/logger"
)

// Service provides business logic for the Manufacturer catalog.
//
// Name uniqueness is checked inside the same transaction as the write. The
// check alone is a lookup-then-write and can race; the unique index on
// cat_manufacturers.name is what finally rejects the loser.
type Service struct {
	repo      Repository
	txManager tx.Manager
	mapper    Mapper
}

// NewService creates a new Manufacturer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create validates the DTO, checks the name is free and stores a new manufacturer.
// Any ID on the DTO is ignored.
func (s *Service) Create(ctx context.Context, dto DTO) (Response, error) {
	dto = dto.Normalize()
	dto.ID = nil
	if err := dto.Validate(ctx); err != nil {
		return Response{}, err
	}

	var created Manufacturer
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkDuplicate(ctx, dto); err != nil {
			return err
		}

		m := s.mapper.ToEntity(dto)
		if err := m.Validate(ctx); err != nil {
			return err
		}

		saved, err := s.repo.Save(ctx, m)
		if err != nil {
			return fmt.Errorf("create %s: %w", EntityName, err)
		}
		created = saved
		return nil
	})
	if err != nil {
		return Response{}, err
	}

	return s.mapper.ToResponse(created), nil
}

// Update applies the DTO onto the manufacturer identified by dto.ID.
func (s *Service) Update(ctx context.Context, dto DTO) (Response, error) {
	dto = dto.Normalize()
	if dto.ID == nil {
		return Response{}, apperror.NewValidation("id is required").
			WithDetail("field", "id")
	}
	if err := dto.Validate(ctx); err != nil {
		return Response{}, err
	}

	manufacturerID := *dto.ID
	var updated Manufacturer
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkDuplicate(ctx, dto); err != nil {
			return err
		}

		current, err := s.repo.FindByIDForUpdate(ctx, manufacturerID)
		if err != nil {
			return s.normalizeGetErr(err, manufacturerID)
		}

		if dto.Version != nil && *dto.Version != current.Version {
			return apperror.NewConcurrentModification(EntityName, manufacturerID).
				WithDetail("expectedVersion", *dto.Version).
				WithDetail("actualVersion", current.Version)
		}

		merged := s.mapper.Merge(dto, current)
		if err := merged.Validate(ctx); err != nil {
			return err
		}

		saved, err := s.repo.Save(ctx, merged)
		if err != nil {
			return fmt.Errorf("update %s: %w", EntityName, err)
		}
		updated = saved
		return nil
	})
	if err != nil {
		return Response{}, err
	}

	return s.mapper.ToResponse(updated), nil
}

// GetByID returns the manufacturer with the given ID.
func (s *Service) GetByID(ctx context.Context, manufacturerID int64) (Response, error) {
	m, err := s.repo.FindByID(ctx, manufacturerID)
	if err != nil {
		err = s.normalizeGetErr(err, manufacturerID)
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeNotFound {
			logger.Error(ctx, "entity not found",
				"m", "getById",
				"status", "error",
				"message", appErr.Message,
				"id", manufacturerID,
			)
		}
		return Response{}, err
	}
	return s.mapper.ToResponse(m), nil
}

// GetAll returns a page of manufacturers regardless of their active flag.
func (s *Service) GetAll(ctx context.Context, page domain.PageRequest) (domain.Page[Response], error) {
	var result domain.Page[Manufacturer]
	err := s.readOnly(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.repo.FindAll(ctx, page.Normalize())
		return err
	})
	if err != nil {
		return domain.Page[Response]{}, err
	}
	return domain.MapPage(result, s.mapper.ToResponse), nil
}

// GetAllActive returns a page of active manufacturers.
func (s *Service) GetAllActive(ctx context.Context, page domain.PageRequest) (domain.Page[Response], error) {
	var result domain.Page[Manufacturer]
	err := s.readOnly(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.repo.FindAllByActive(ctx, page.Normalize(), true)
		return err
	})
	if err != nil {
		return domain.Page[Response]{}, err
	}
	return domain.MapPage(result, s.mapper.ToResponse), nil
}

// DeleteByID removes the manufacturer. Whatever the repository reports for a
// missing ID is returned as is.
func (s *Service) DeleteByID(ctx context.Context, manufacturerID int64) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteByID(ctx, manufacturerID)
	})
}

// checkDuplicate fails when another manufacturer already holds dto.Name.
// With an ID present the manufacturer itself is excluded from the lookup.
func (s *Service) checkDuplicate(ctx context.Context, dto DTO) error {
	var (
		found bool
		err   error
	)
	if dto.ID != nil {
		_, found, err = s.repo.FindIDByNameAndIDNot(ctx, dto.Name, *dto.ID)
	} else {
		_, found, err = s.repo.FindIDByName(ctx, dto.Name)
	}
	if err != nil {
		return fmt.Errorf("check %s name: %w", EntityName, err)
	}
	if found {
		return apperror.NewDuplicate(EntityName, "name", dto.Name)
	}
	return nil
}

func (s *Service) normalizeGetErr(err error, manufacturerID int64) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(EntityName, manufacturerID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", EntityName).WithDetail("id", manufacturerID)
}

// readOnly runs fn in a read-only transaction when the manager supports it,
// so count and page queries see the same snapshot.
func (s *Service) readOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if ro, ok := s.txManager.(tx.ReadOnlyManager); ok {
		return ro.ReadOnly(ctx, fn)
	}
	return fn(ctx)
}
