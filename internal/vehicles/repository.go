package vehicles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
)

// ListFilter narrows the vehicle listing. Nil fields are ignored.
type ListFilter struct {
	Brand      *string
	Model      *string
	CategoryID *uuid.UUID
	YearMin    *int
	YearMax    *int
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Active     *bool
}

// Repository handles vehicle persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to vehicle operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns vehicles matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Vehicle, error) {
	q := r.db.WithContext(ctx).Model(&models.Vehicle{})
	if filter.Brand != nil {
		q = q.Where("brand = ?", *filter.Brand)
	}
	if filter.Model != nil {
		q = q.Where("model LIKE ?", "%"+*filter.Model+"%")
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.YearMin != nil {
		q = q.Where("year >= ?", *filter.YearMin)
	}
	if filter.YearMax != nil {
		q = q.Where("year <= ?", *filter.YearMax)
	}
	if filter.PriceMin != nil {
		q = q.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		q = q.Where("price <= ?", *filter.PriceMax)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}

	var vehicles []models.Vehicle
	if err := q.Order("created_at DESC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// FindByID loads a vehicle by primary key. Absence returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

// Create persists a new vehicle row.
func (r *Repository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// Update saves the provided vehicle.
func (r *Repository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// Delete removes a vehicle row. Deleting an absent id is a no-op.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vehicle{}).Error
}

// ExistsByID reports whether a vehicle row exists.
func (r *Repository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// ListActiveIDs returns the ids of every active vehicle.
func (r *Repository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("active = ?", true).
		Order("created_at").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
