package testimonials

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
)

// Repository handles testimonial persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to testimonial operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns testimonials, newest first. When approvedOnly is set, pending
// entries are filtered out.
func (r *Repository) List(ctx context.Context, approvedOnly bool) ([]models.Testimonial, error) {
	q := r.db.WithContext(ctx).Model(&models.Testimonial{})
	if approvedOnly {
		q = q.Where("approved = ?", true)
	}
	var rows []models.Testimonial
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a testimonial by primary key. Absence returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	var row models.Testimonial
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Create persists a new testimonial row.
func (r *Repository) Create(ctx context.Context, row *models.Testimonial) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update saves the provided testimonial.
func (r *Repository) Update(ctx context.Context, row *models.Testimonial) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes a testimonial row. Deleting an absent id is a no-op.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Testimonial{}).Error
}

// CountApproved reports how many testimonials are published.
func (r *Repository) CountApproved(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Testimonial{}).
		Where("approved = ?", true).
		Count(&count).Error
	return count, err
}
