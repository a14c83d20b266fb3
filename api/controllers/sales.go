package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/veloxmotors/dealership-backend/api/responses"
	"github.com/veloxmotors/dealership-backend/api/validators"
	salesvc "github.com/veloxmotors/dealership-backend/internal/sales"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

type createSaleRequest struct {
	VehicleID uuid.UUID  `json:"vehicle_id" validate:"required"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Price     *string    `json:"price,omitempty"`
	SoldAt    *time.Time `json:"sold_at,omitempty"`
}

// ListSales returns every recorded sale.
func ListSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetSale returns one sale by id.
func GetSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
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

// ListVehicleSales returns the sales recorded for one vehicle.
func ListVehicleSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID, err := validators.ParseUUIDParam(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListByVehicle(r.Context(), vehicleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CreateSale records a sale and consumes one stock unit. Overselling is
// rejected with 422.
func CreateSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := salesvc.CreateSaleInput{
			VehicleID: payload.VehicleID,
			UserID:    payload.UserID,
			SoldAt:    payload.SoldAt,
		}
		if payload.Price != nil {
			price, err := parsePrice(*payload.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Price = &price
		}

		dto, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
