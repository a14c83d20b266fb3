package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale records one vehicle leaving the lot. Recording a sale decrements the
// vehicle's stock through the guarded path.
type Sale struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	VehicleID uuid.UUID       `gorm:"column:vehicle_id;type:uuid;not null;index"`
	UserID    *uuid.UUID      `gorm:"column:user_id;type:uuid;index"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	SoldAt    time.Time       `gorm:"column:sold_at;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (s *Sale) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SoldAt.IsZero() {
		s.SoldAt = time.Now().UTC()
	}
	return nil
}
