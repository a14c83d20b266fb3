package testimonials

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

// TestimonialDTO is the response shape for a customer testimonial.
type TestimonialDTO struct {
	ID         uuid.UUID `json:"id"`
	AuthorName string    `json:"author_name"`
	Message    string    `json:"message"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Service exposes testimonial operations. Submissions start unapproved and
// only show on the storefront after moderation.
type Service interface {
	List(ctx context.Context, approvedOnly bool) ([]TestimonialDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TestimonialDTO, error)
	Submit(ctx context.Context, authorName, message string) (*TestimonialDTO, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*TestimonialDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService wires the testimonial service.
func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

func fromModel(row *models.Testimonial) *TestimonialDTO {
	if row == nil {
		return nil
	}
	return &TestimonialDTO{
		ID:         row.ID,
		AuthorName: row.AuthorName,
		Message:    row.Message,
		Approved:   row.Approved,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func (s *service) List(ctx context.Context, approvedOnly bool) ([]TestimonialDTO, error) {
	rows, err := s.repo.List(ctx, approvedOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing testimonials")
	}
	dtos := make([]TestimonialDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*TestimonialDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading testimonial")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "testimonial not found")
	}
	return fromModel(row), nil
}

func (s *service) Submit(ctx context.Context, authorName, message string) (*TestimonialDTO, error) {
	authorName = strings.TrimSpace(authorName)
	message = strings.TrimSpace(message)
	if authorName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author name is required")
	}
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	row := &models.Testimonial{AuthorName: authorName, Message: message}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating testimonial")
	}
	return fromModel(row), nil
}

func (s *service) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*TestimonialDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading testimonial")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "testimonial not found")
	}

	row.Approved = approved
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating testimonial")
	}
	return fromModel(row), nil
}

// Delete removes a testimonial. Absent ids are a no-op.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting testimonial")
	}
	return nil
}
