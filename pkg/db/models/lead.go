package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus values for scheduled visits.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCanceled  = "canceled"
	AppointmentDone      = "done"
)

// Appointment is a scheduled visit or test drive for a vehicle.
type Appointment struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VehicleID    uuid.UUID `gorm:"column:vehicle_id;type:uuid;not null;index"`
	CustomerName string    `gorm:"column:customer_name;not null"`
	Email        string    `gorm:"column:email;not null"`
	Phone        *string   `gorm:"column:phone"`
	ScheduledFor time.Time `gorm:"column:scheduled_for;not null"`
	Status       string    `gorm:"column:status;not null;default:'pending'"`
	Notes        *string   `gorm:"column:notes"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Appointment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AppointmentPending
	}
	return nil
}

// InterestLead is a buyer expressing interest in a vehicle without committing
// to a visit yet.
type InterestLead struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	VehicleID    *uuid.UUID `gorm:"column:vehicle_id;type:uuid;index"`
	CustomerName string     `gorm:"column:customer_name;not null"`
	Email        string     `gorm:"column:email;not null"`
	Phone        *string    `gorm:"column:phone"`
	Message      *string    `gorm:"column:message"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (l *InterestLead) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
