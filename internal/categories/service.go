package categories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

// CategoryDTO is the response shape for a catalog category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service exposes category operations.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, name string) (*CategoryDTO, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo *Repository
}

// NewService wires the category service.
func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

func fromModel(row *models.Category) *CategoryDTO {
	if row == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return fromModel(row), nil
}

func (s *service) Create(ctx context.Context, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking category name")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already in use")
	}

	row := &models.Category{Name: name}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
	}
	return fromModel(row), nil
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}

	taken, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking category name")
	}
	if taken != nil && taken.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already in use")
	}

	row.Name = name
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "renaming category")
	}
	return fromModel(row), nil
}

// Delete refuses to remove a category still referenced by vehicles.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountVehicles(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting category vehicles")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has vehicles")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting category")
	}
	return nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}
