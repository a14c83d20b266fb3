package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vehicle is a listing on the dealership lot.
type Vehicle struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID  *uuid.UUID      `gorm:"column:category_id;type:uuid;index"`
	Model       string          `gorm:"column:model;not null"`
	Brand       string          `gorm:"column:brand;not null"`
	Year        int             `gorm:"column:year;not null"`
	Color       *string         `gorm:"column:color"`
	Mileage     *int            `gorm:"column:mileage"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Description *string         `gorm:"column:description"`
	Active      bool            `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *Vehicle) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
