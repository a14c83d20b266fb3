package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultStockLocation is applied when a stock row is created without an
// explicit storage location.
const DefaultStockLocation = "Matriz"

// StockItem associates one vehicle with an on-hand quantity and a storage
// location. The vehicle_id unique index backs the one-row-per-vehicle rule.
type StockItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VehicleID uuid.UUID `gorm:"column:vehicle_id;type:uuid;not null;uniqueIndex:idx_stock_items_vehicle_id"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	Location  string    `gorm:"column:location;not null;default:'Matriz'"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *StockItem) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Location == "" {
		s.Location = DefaultStockLocation
	}
	return nil
}
