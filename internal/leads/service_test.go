package leads

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

var testDBSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:leads_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Appointment{}, &models.InterestLead{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

type fakeVehicles struct {
	known map[uuid.UUID]bool
}

func (f *fakeVehicles) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

func newLeadFixture(t *testing.T) (Service, *Repository, uuid.UUID) {
	t.Helper()
	conn := openTestDB(t)
	vehicleID := uuid.New()
	vehicles := &fakeVehicles{known: map[uuid.UUID]bool{vehicleID: true}}
	repo := NewRepository(conn)
	return NewService(repo, vehicles), repo, vehicleID
}

func TestServiceScheduleAppointment(t *testing.T) {
	svc, _, vehicleID := newLeadFixture(t)
	ctx := context.Background()

	dto, err := svc.ScheduleAppointment(ctx, ScheduleAppointmentInput{
		VehicleID:    vehicleID,
		CustomerName: "Marcos Dias",
		Email:        "Marcos@Example.com",
		ScheduledFor: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if dto.Status != models.AppointmentPending {
		t.Fatalf("expected pending status, got %q", dto.Status)
	}
	if dto.Email != "marcos@example.com" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}
}

func TestServiceScheduleAppointmentValidation(t *testing.T) {
	svc, _, vehicleID := newLeadFixture(t)
	ctx := context.Background()
	future := time.Now().Add(24 * time.Hour)

	cases := []struct {
		name  string
		input ScheduleAppointmentInput
		code  pkgerrors.Code
	}{
		{"missing vehicle", ScheduleAppointmentInput{CustomerName: "A", Email: "a@b.com", ScheduledFor: future}, pkgerrors.CodeValidation},
		{"missing name", ScheduleAppointmentInput{VehicleID: vehicleID, Email: "a@b.com", ScheduledFor: future}, pkgerrors.CodeValidation},
		{"bad email", ScheduleAppointmentInput{VehicleID: vehicleID, CustomerName: "A", Email: "nope", ScheduledFor: future}, pkgerrors.CodeValidation},
		{"past date", ScheduleAppointmentInput{VehicleID: vehicleID, CustomerName: "A", Email: "a@b.com", ScheduledFor: time.Now().Add(-time.Hour)}, pkgerrors.CodeValidation},
		{"unknown vehicle", ScheduleAppointmentInput{VehicleID: uuid.New(), CustomerName: "A", Email: "a@b.com", ScheduledFor: future}, pkgerrors.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ScheduleAppointment(ctx, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestServiceAppointmentTransitions(t *testing.T) {
	svc, _, vehicleID := newLeadFixture(t)
	ctx := context.Background()

	dto, err := svc.ScheduleAppointment(ctx, ScheduleAppointmentInput{
		VehicleID:    vehicleID,
		CustomerName: "Marcos",
		Email:        "marcos@example.com",
		ScheduledFor: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	// pending -> done skips confirmation and must be rejected.
	_, err = svc.TransitionAppointment(ctx, dto.ID, models.AppointmentDone)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	confirmed, err := svc.TransitionAppointment(ctx, dto.ID, models.AppointmentConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != models.AppointmentConfirmed {
		t.Fatalf("expected confirmed, got %q", confirmed.Status)
	}

	done, err := svc.TransitionAppointment(ctx, dto.ID, models.AppointmentDone)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.AppointmentDone {
		t.Fatalf("expected done, got %q", done.Status)
	}

	// Terminal states accept no further transitions.
	if _, err := svc.TransitionAppointment(ctx, dto.ID, models.AppointmentCanceled); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict from terminal state, got %v", err)
	}
}

func TestServiceInterestLeadsAndOpenCount(t *testing.T) {
	svc, repo, vehicleID := newLeadFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateInterestLead(ctx, CreateInterestLeadInput{
		VehicleID:    &vehicleID,
		CustomerName: "Paula",
		Email:        "paula@example.com",
	}); err != nil {
		t.Fatalf("create interest lead: %v", err)
	}

	// Interest in the lot generally, with no specific vehicle.
	if _, err := svc.CreateInterestLead(ctx, CreateInterestLeadInput{
		CustomerName: "Rafael",
		Email:        "rafael@example.com",
	}); err != nil {
		t.Fatalf("create general lead: %v", err)
	}

	unknown := uuid.New()
	if _, err := svc.CreateInterestLead(ctx, CreateInterestLeadInput{
		VehicleID:    &unknown,
		CustomerName: "Paula",
		Email:        "paula@example.com",
	}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown vehicle, got %v", err)
	}

	if _, err := svc.ScheduleAppointment(ctx, ScheduleAppointmentInput{
		VehicleID:    vehicleID,
		CustomerName: "Marcos",
		Email:        "marcos@example.com",
		ScheduledFor: time.Now().Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	leads, err := svc.ListInterestLeads(ctx)
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 interest leads, got %d", len(leads))
	}

	open, err := repo.CountOpenLeads(ctx)
	if err != nil {
		t.Fatalf("count open: %v", err)
	}
	if open != 3 {
		t.Fatalf("expected 3 open leads, got %d", open)
	}
}
