package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veloxmotors/dealership-backend/api/responses"
	"github.com/veloxmotors/dealership-backend/api/validators"
	leadsvc "github.com/veloxmotors/dealership-backend/internal/leads"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

type scheduleAppointmentRequest struct {
	VehicleID    uuid.UUID `json:"vehicle_id" validate:"required"`
	CustomerName string    `json:"customer_name" validate:"required,min=1,max=120"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        *string   `json:"phone,omitempty" validate:"omitempty,min=5,max=30"`
	ScheduledFor time.Time `json:"scheduled_for" validate:"required"`
	Notes        *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type transitionAppointmentRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed canceled done"`
}

type createInterestLeadRequest struct {
	VehicleID    *uuid.UUID `json:"vehicle_id,omitempty"`
	CustomerName string     `json:"customer_name" validate:"required,min=1,max=120"`
	Email        string     `json:"email" validate:"required,email"`
	Phone        *string    `json:"phone,omitempty" validate:"omitempty,min=5,max=30"`
	Message      *string    `json:"message,omitempty" validate:"omitempty,max=2000"`
}

// ListAppointments returns scheduled visits, optionally filtered by status.
func ListAppointments(svc leadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		rows, err := svc.ListAppointments(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ScheduleAppointment books a showroom visit for a vehicle.
func ScheduleAppointment(svc leadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload scheduleAppointmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.ScheduleAppointment(r.Context(), leadsvc.ScheduleAppointmentInput{
			VehicleID:    payload.VehicleID,
			CustomerName: payload.CustomerName,
			Email:        payload.Email,
			Phone:        payload.Phone,
			ScheduledFor: payload.ScheduledFor,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// TransitionAppointment moves an appointment through its lifecycle.
func TransitionAppointment(svc leadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload transitionAppointmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.TransitionAppointment(r.Context(), id, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ListInterestLeads returns buyer inquiries, newest first.
func ListInterestLeads(svc leadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListInterestLeads(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CreateInterestLead records a buyer inquiry, optionally tied to a vehicle.
func CreateInterestLead(svc leadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createInterestLeadRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateInterestLead(r.Context(), leadsvc.CreateInterestLeadInput{
			VehicleID:    payload.VehicleID,
			CustomerName: payload.CustomerName,
			Email:        payload.Email,
			Phone:        payload.Phone,
			Message:      payload.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
