package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veloxmotors/dealership-backend/api/responses"
	"github.com/veloxmotors/dealership-backend/api/validators"
	vehiclesvc "github.com/veloxmotors/dealership-backend/internal/vehicles"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

type createVehicleRequest struct {
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Model       string     `json:"model" validate:"required,min=1,max=120"`
	Brand       string     `json:"brand" validate:"required,min=1,max=120"`
	Year        int        `json:"year" validate:"required"`
	Color       *string    `json:"color,omitempty" validate:"omitempty,max=60"`
	Mileage     *int       `json:"mileage,omitempty" validate:"omitempty,gte=0"`
	Price       string     `json:"price" validate:"required"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Active      *bool      `json:"active,omitempty"`
}

type updateVehicleRequest struct {
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Model       *string    `json:"model,omitempty" validate:"omitempty,min=1,max=120"`
	Brand       *string    `json:"brand,omitempty" validate:"omitempty,min=1,max=120"`
	Year        *int       `json:"year,omitempty"`
	Color       *string    `json:"color,omitempty" validate:"omitempty,max=60"`
	Mileage     *int       `json:"mileage,omitempty" validate:"omitempty,gte=0"`
	Price       *string    `json:"price,omitempty"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Active      *bool      `json:"active,omitempty"`
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number").
			WithDetails(map[string]any{"field": "price"})
	}
	return price, nil
}

func vehicleFilterFromQuery(r *http.Request) (vehiclesvc.ListFilter, error) {
	filter := vehiclesvc.ListFilter{}
	query := r.URL.Query()

	if brand := strings.TrimSpace(query.Get("brand")); brand != "" {
		filter.Brand = &brand
	}
	if model := strings.TrimSpace(query.Get("model")); model != "" {
		filter.Model = &model
	}
	if rawCategory := strings.TrimSpace(query.Get("category_id")); rawCategory != "" {
		categoryID, err := uuid.Parse(rawCategory)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "category_id must be a uuid")
		}
		filter.CategoryID = &categoryID
	}

	if yearMin, err := validators.ParseQueryInt(r, "year_min", 0, 0, 3000); err != nil {
		return filter, err
	} else if yearMin > 0 {
		filter.YearMin = &yearMin
	}
	if yearMax, err := validators.ParseQueryInt(r, "year_max", 0, 0, 3000); err != nil {
		return filter, err
	} else if yearMax > 0 {
		filter.YearMax = &yearMax
	}

	if rawMin := strings.TrimSpace(query.Get("price_min")); rawMin != "" {
		priceMin, err := parsePrice(rawMin)
		if err != nil {
			return filter, err
		}
		filter.PriceMin = &priceMin
	}
	if rawMax := strings.TrimSpace(query.Get("price_max")); rawMax != "" {
		priceMax, err := parsePrice(rawMax)
		if err != nil {
			return filter, err
		}
		filter.PriceMax = &priceMax
	}

	active, err := validators.ParseQueryBool(r, "active")
	if err != nil {
		return filter, err
	}
	filter.Active = active

	return filter, nil
}

// ListVehicles returns the catalog, optionally filtered by query parameters.
func ListVehicles(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := vehicleFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetVehicle returns one vehicle by id.
func GetVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
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

// CreateVehicle registers a new vehicle.
func CreateVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createVehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := parsePrice(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), vehiclesvc.CreateVehicleInput{
			CategoryID:  payload.CategoryID,
			Model:       payload.Model,
			Brand:       payload.Brand,
			Year:        payload.Year,
			Color:       payload.Color,
			Mileage:     payload.Mileage,
			Price:       price,
			Description: payload.Description,
			Active:      payload.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UpdateVehicle mutates a vehicle. Omitted fields keep their stored values.
func UpdateVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateVehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := vehiclesvc.UpdateVehicleInput{
			CategoryID:  payload.CategoryID,
			Model:       payload.Model,
			Brand:       payload.Brand,
			Year:        payload.Year,
			Color:       payload.Color,
			Mileage:     payload.Mileage,
			Description: payload.Description,
			Active:      payload.Active,
		}
		if payload.Price != nil {
			price, err := parsePrice(*payload.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Price = &price
		}

		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteVehicle removes a vehicle and its stock row.
func DeleteVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
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
