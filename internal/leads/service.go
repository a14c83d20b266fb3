package leads

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

// vehicleDirectory checks vehicle references on incoming leads.
type vehicleDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// AppointmentDTO is the response shape for a scheduled visit.
type AppointmentDTO struct {
	ID           uuid.UUID `json:"id"`
	VehicleID    uuid.UUID `json:"vehicle_id"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// InterestLeadDTO is the response shape for a buyer inquiry.
type InterestLeadDTO struct {
	ID           uuid.UUID  `json:"id"`
	VehicleID    *uuid.UUID `json:"vehicle_id,omitempty"`
	CustomerName string     `json:"customer_name"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone,omitempty"`
	Message      *string    `json:"message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ScheduleAppointmentInput captures a visit request.
type ScheduleAppointmentInput struct {
	VehicleID    uuid.UUID
	CustomerName string
	Email        string
	Phone        *string
	ScheduledFor time.Time
	Notes        *string
}

// CreateInterestLeadInput captures a buyer inquiry.
type CreateInterestLeadInput struct {
	VehicleID    *uuid.UUID
	CustomerName string
	Email        string
	Phone        *string
	Message      *string
}

var validTransitions = map[string][]string{
	models.AppointmentPending:   {models.AppointmentConfirmed, models.AppointmentCanceled},
	models.AppointmentConfirmed: {models.AppointmentDone, models.AppointmentCanceled},
}

// Service exposes lead operations.
type Service interface {
	ListAppointments(ctx context.Context, status string) ([]AppointmentDTO, error)
	ScheduleAppointment(ctx context.Context, input ScheduleAppointmentInput) (*AppointmentDTO, error)
	TransitionAppointment(ctx context.Context, id uuid.UUID, status string) (*AppointmentDTO, error)

	ListInterestLeads(ctx context.Context) ([]InterestLeadDTO, error)
	CreateInterestLead(ctx context.Context, input CreateInterestLeadInput) (*InterestLeadDTO, error)
}

type service struct {
	repo     *Repository
	vehicles vehicleDirectory
}

// NewService wires the lead service.
func NewService(repo *Repository, vehicles vehicleDirectory) Service {
	return &service{repo: repo, vehicles: vehicles}
}

func appointmentFromModel(row *models.Appointment) *AppointmentDTO {
	if row == nil {
		return nil
	}
	return &AppointmentDTO{
		ID:           row.ID,
		VehicleID:    row.VehicleID,
		CustomerName: row.CustomerName,
		Email:        row.Email,
		Phone:        row.Phone,
		ScheduledFor: row.ScheduledFor,
		Status:       row.Status,
		Notes:        row.Notes,
		CreatedAt:    row.CreatedAt,
	}
}

func interestFromModel(row *models.InterestLead) *InterestLeadDTO {
	if row == nil {
		return nil
	}
	return &InterestLeadDTO{
		ID:           row.ID,
		VehicleID:    row.VehicleID,
		CustomerName: row.CustomerName,
		Email:        row.Email,
		Phone:        row.Phone,
		Message:      row.Message,
		CreatedAt:    row.CreatedAt,
	}
}

func (s *service) ListAppointments(ctx context.Context, status string) ([]AppointmentDTO, error) {
	rows, err := s.repo.ListAppointments(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing appointments")
	}
	dtos := make([]AppointmentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *appointmentFromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) ScheduleAppointment(ctx context.Context, input ScheduleAppointmentInput) (*AppointmentDTO, error) {
	if input.VehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	name := strings.TrimSpace(input.CustomerName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if input.ScheduledFor.Before(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointments must be scheduled in the future")
	}

	exists, err := s.vehicles.Exists(ctx, input.VehicleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking vehicle")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}

	row := &models.Appointment{
		VehicleID:    input.VehicleID,
		CustomerName: name,
		Email:        email,
		Phone:        input.Phone,
		ScheduledFor: input.ScheduledFor,
		Notes:        input.Notes,
	}
	if err := s.repo.CreateAppointment(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating appointment")
	}
	return appointmentFromModel(row), nil
}

func (s *service) TransitionAppointment(ctx context.Context, id uuid.UUID, status string) (*AppointmentDTO, error) {
	row, err := s.repo.FindAppointmentByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading appointment")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}

	allowed := false
	for _, next := range validTransitions[row.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "invalid appointment transition").
			WithDetails(map[string]any{"from": row.Status, "to": status})
	}

	row.Status = status
	if err := s.repo.UpdateAppointment(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating appointment")
	}
	return appointmentFromModel(row), nil
}

func (s *service) ListInterestLeads(ctx context.Context) ([]InterestLeadDTO, error) {
	rows, err := s.repo.ListInterestLeads(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing interest leads")
	}
	dtos := make([]InterestLeadDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *interestFromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) CreateInterestLead(ctx context.Context, input CreateInterestLeadInput) (*InterestLeadDTO, error) {
	name := strings.TrimSpace(input.CustomerName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if input.VehicleID != nil {
		exists, err := s.vehicles.Exists(ctx, *input.VehicleID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking vehicle")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
	}

	row := &models.InterestLead{
		VehicleID:    input.VehicleID,
		CustomerName: name,
		Email:        email,
		Phone:        input.Phone,
		Message:      input.Message,
	}
	if err := s.repo.CreateInterestLead(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating interest lead")
	}
	return interestFromModel(row), nil
}
