package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

// UserDTO is the response shape for a dealership customer.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserInput captures the fields accepted when registering a customer.
type CreateUserInput struct {
	Name  string
	Email string
	Phone *string
}

// UpdateUserInput captures the mutable customer fields. Nil fields keep their
// stored values.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Phone *string
}

// Service exposes customer operations.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo *Repository
}

// NewService wires the customer service.
func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

func fromModel(row *models.User) *UserDTO {
	if row == nil {
		return nil
	}
	return &UserDTO{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return fromModel(row), nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking email")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	row := &models.User{Name: name, Email: email, Phone: input.Phone}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating customer")
	}
	return fromModel(row), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		row.Name = name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
		}
		taken, err := s.repo.FindByEmail(ctx, email)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking email")
		}
		if taken != nil && taken.ID != id {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		row.Email = email
	}
	if input.Phone != nil {
		row.Phone = input.Phone
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating customer")
	}
	return fromModel(row), nil
}

// Delete removes a customer. Absent ids are a no-op.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting customer")
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
