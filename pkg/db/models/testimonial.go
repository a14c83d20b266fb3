package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Testimonial is a customer quote shown on the storefront once approved.
type Testimonial struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	AuthorName string    `gorm:"column:author_name;not null"`
	Message    string    `gorm:"column:message;not null"`
	Approved   bool      `gorm:"column:approved;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (t *Testimonial) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
