package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/veloxmotors/dealership-backend/api/responses"
	"github.com/veloxmotors/dealership-backend/api/validators"
	stocksvc "github.com/veloxmotors/dealership-backend/internal/stock"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

type upsertStockRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
	Quantity  *int      `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Location  *string   `json:"location,omitempty" validate:"omitempty,min=1,max=120"`
}

type updateStockRequest struct {
	Quantity *int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Location *string `json:"location,omitempty" validate:"omitempty,min=1,max=120"`
}

type adjustStockRequest struct {
	Amount int `json:"amount" validate:"required,gte=1"`
}

// ListStock returns every stock row with vehicle display fields.
func ListStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetStock returns one stock row by id.
func GetStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// GetStockByVehicle returns the vehicle's stock row, or the zero-quantity
// placeholder when the vehicle has none.
func GetStockByVehicle(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID, err := validators.ParseUUIDParam(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetByVehicle(r.Context(), vehicleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// StockAvailability answers whether qty units of a vehicle are on hand.
func StockAvailability(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID, err := validators.ParseUUIDParam(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		needed, err := validators.ParseQueryInt(r, "qty", 1, -1000000, 1000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		available, err := svc.CheckAvailability(r.Context(), vehicleID, needed)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"vehicle_id": vehicleID,
			"requested":  needed,
			"available":  available,
		})
	}
}

// UpsertStock creates or updates the stock row for a vehicle. 201 on create,
// 200 on update.
func UpsertStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload upsertStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, created, err := svc.Upsert(r.Context(), stocksvc.UpsertInput{
			VehicleID: payload.VehicleID,
			Quantity:  payload.Quantity,
			Location:  payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, dto)
	}
}

// UpdateStock mutates a stock row addressed by its id.
func UpdateStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, stocksvc.UpdateInput{
			Quantity: payload.Quantity,
			Location: payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteStock removes a stock row. Succeeds even when the id is absent.
func DeleteStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ReduceStock decrements a vehicle's stock through the guarded path.
func ReduceStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adjustStock(svc.ReduceQuantity, logg)
}

// IncreaseStock increments a vehicle's stock, creating the row when absent.
func IncreaseStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adjustStock(svc.IncreaseQuantity, logg)
}

func adjustStock(op func(ctx context.Context, vehicleID uuid.UUID, amount int) (*stocksvc.AdjustmentResult, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID, err := validators.ParseUUIDParam(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := op(r.Context(), vehicleID, payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RevalidateStock runs the repair sweep on demand.
func RevalidateStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Revalidate(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
