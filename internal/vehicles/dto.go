package vehicles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
)

// VehicleDTO is the response shape for a vehicle listing.
type VehicleDTO struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Model       string          `json:"model"`
	Brand       string          `json:"brand"`
	Year        int             `json:"year"`
	Color       *string         `json:"color,omitempty"`
	Mileage     *int            `json:"mileage,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateVehicleInput captures the fields accepted when registering a vehicle.
type CreateVehicleInput struct {
	CategoryID  *uuid.UUID
	Model       string
	Brand       string
	Year        int
	Color       *string
	Mileage     *int
	Price       decimal.Decimal
	Description *string
	Active      *bool
}

// UpdateVehicleInput captures the mutable vehicle fields. Nil fields keep
// their stored values.
type UpdateVehicleInput struct {
	CategoryID  *uuid.UUID
	Model       *string
	Brand       *string
	Year        *int
	Color       *string
	Mileage     *int
	Price       *decimal.Decimal
	Description *string
	Active      *bool
}

// FromModel maps a vehicle row to its DTO.
func FromModel(vehicle *models.Vehicle) *VehicleDTO {
	if vehicle == nil {
		return nil
	}
	return &VehicleDTO{
		ID:          vehicle.ID,
		CategoryID:  vehicle.CategoryID,
		Model:       vehicle.Model,
		Brand:       vehicle.Brand,
		Year:        vehicle.Year,
		Color:       vehicle.Color,
		Mileage:     vehicle.Mileage,
		Price:       vehicle.Price,
		Description: vehicle.Description,
		Active:      vehicle.Active,
		CreatedAt:   vehicle.CreatedAt,
		UpdatedAt:   vehicle.UpdatedAt,
	}
}

// FromModels maps a slice of vehicle rows.
func FromModels(rows []models.Vehicle) []VehicleDTO {
	dtos := make([]VehicleDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
