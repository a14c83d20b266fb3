package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
)

// StockDTO is the response shape for a single stock record. Exists is false
// only for the zero-quantity placeholder returned when a vehicle has no row.
type StockDTO struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	VehicleID uuid.UUID  `json:"vehicle_id"`
	Quantity  int        `json:"quantity"`
	Location  string     `json:"location"`
	Exists    bool       `json:"exists"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UpsertInput captures an add-or-update request keyed by vehicle. Nil fields
// retain the current value when a row already exists.
type UpsertInput struct {
	VehicleID uuid.UUID
	Quantity  *int
	Location  *string
}

// UpdateInput mutates a row addressed by its own id.
type UpdateInput struct {
	Quantity *int
	Location *string
}

// AdjustmentResult reports the quantities around an increment or decrement.
type AdjustmentResult struct {
	VehicleID uuid.UUID `json:"vehicle_id"`
	Previous  int       `json:"previous_quantity"`
	Current   int       `json:"current_quantity"`
}

// RevalidateResult summarizes a repair sweep.
type RevalidateResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

func toDTO(item *models.StockItem) *StockDTO {
	if item == nil {
		return nil
	}
	id := item.ID
	updatedAt := item.UpdatedAt
	return &StockDTO{
		ID:        &id,
		VehicleID: item.VehicleID,
		Quantity:  item.Quantity,
		Location:  item.Location,
		Exists:    true,
		UpdatedAt: &updatedAt,
	}
}

func placeholderDTO(vehicleID uuid.UUID) *StockDTO {
	return &StockDTO{
		VehicleID: vehicleID,
		Quantity:  0,
		Location:  models.DefaultStockLocation,
		Exists:    false,
	}
}
