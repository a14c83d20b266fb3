package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
)

// Repository handles sale persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to sale operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns sales, most recent first.
func (r *Repository) List(ctx context.Context) ([]models.Sale, error) {
	var rows []models.Sale
	if err := r.db.WithContext(ctx).Order("sold_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a sale by primary key. Absence returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var row models.Sale
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Create persists a new sale row.
func (r *Repository) Create(ctx context.Context, row *models.Sale) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// ListByVehicle returns every sale recorded for a vehicle.
func (r *Repository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]models.Sale, error) {
	var rows []models.Sale
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("sold_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count reports the number of recorded sales.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Sale{}).Count(&count).Error
	return count, err
}
