package services

import (
	"context"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/repositories"
	"gorm.io/gorm"
)

// LookupService serves one of the contract, status or deed-status tables.
// set copies value and slug onto a row.
type LookupService[T repositories.LookupRow] struct {
	repo *repositories.LookupRepository[T]
	set  func(row *T, value, slug string)
}

func NewContractService(db *gorm.DB) *LookupService[models.PropertyContract] {
	return &LookupService[models.PropertyContract]{
		repo: repositories.NewContractRepository(db),
		set:  func(row *models.PropertyContract, value, slug string) { row.Value, row.Slug = value, slug },
	}
}

func NewStatusService(db *gorm.DB) *LookupService[models.PropertyStatus] {
	return &LookupService[models.PropertyStatus]{
		repo: repositories.NewStatusRepository(db),
		set:  func(row *models.PropertyStatus, value, slug string) { row.Value, row.Slug = value, slug },
	}
}

func NewDeedStatusService(db *gorm.DB) *LookupService[models.PropertyDeedStatus] {
	return &LookupService[models.PropertyDeedStatus]{
		repo: repositories.NewDeedStatusRepository(db),
		set:  func(row *models.PropertyDeedStatus, value, slug string) { row.Value, row.Slug = value, slug },
	}
}

func (s *LookupService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

func (s *LookupService[T]) Get(ctx context.Context, id string) (T, error) {
	return s.repo.FindByID(ctx, id)
}

func lookupInput(req dto.LookupRequest) (string, string, error) {
	fields := apperr.FieldErrors{}
	value := requireText(fields, "value", req.Value)
	slug := resolveSlug(fields, req.Slug, value)
	return value, slug, fields.Err()
}

func (s *LookupService[T]) Create(ctx context.Context, req dto.LookupRequest) (T, error) {
	var row T
	value, slug, err := lookupInput(req)
	if err != nil {
		return row, err
	}
	s.set(&row, value, slug)
	if err := s.repo.Create(ctx, &row); err != nil {
		var zero T
		return zero, err
	}
	return row, nil
}

func (s *LookupService[T]) Update(ctx context.Context, id string, req dto.LookupRequest) (T, error) {
	value, slug, err := lookupInput(req)
	if err != nil {
		var zero T
		return zero, err
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return row, err
	}
	s.set(&row, value, slug)
	if err := s.repo.Save(ctx, &row); err != nil {
		var zero T
		return zero, err
	}
	return row, nil
}

// Delete fails with a Conflict while listings reference the row.
func (s *LookupService[T]) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
