package leads

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
)

// Repository handles appointment and interest lead persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to lead operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAppointments returns appointments ordered by scheduled time. When
// status is non-empty only matching rows are returned.
func (r *Repository) ListAppointments(ctx context.Context, status string) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []models.Appointment
	if err := q.Order("scheduled_for").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindAppointmentByID loads an appointment. Absence returns (nil, nil).
func (r *Repository) FindAppointmentByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var row models.Appointment
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CreateAppointment persists a new appointment row.
func (r *Repository) CreateAppointment(ctx context.Context, row *models.Appointment) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateAppointment saves the provided appointment.
func (r *Repository) UpdateAppointment(ctx context.Context, row *models.Appointment) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// ListInterestLeads returns interest leads, newest first.
func (r *Repository) ListInterestLeads(ctx context.Context) ([]models.InterestLead, error) {
	var rows []models.InterestLead
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateInterestLead persists a new interest lead row.
func (r *Repository) CreateInterestLead(ctx context.Context, row *models.InterestLead) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// CountOpenLeads reports pending appointments plus every interest lead.
func (r *Repository) CountOpenLeads(ctx context.Context) (int64, error) {
	var appointments int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("status = ?", models.AppointmentPending).
		Count(&appointments).Error
	if err != nil {
		return 0, err
	}

	var interests int64
	if err := r.db.WithContext(ctx).Model(&models.InterestLead{}).Count(&interests).Error; err != nil {
		return 0, err
	}
	return appointments + interests, nil
}
