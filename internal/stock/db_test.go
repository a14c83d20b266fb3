package stock

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
)

var testDBSeq atomic.Int64

// openTestDB opens a fresh in-memory database per test. The name makes the
// database private to the test while still surviving pooled connections.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:stock_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Vehicle{}, &models.StockItem{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateTestVehicle(t *testing.T, conn *gorm.DB) *models.Vehicle {
	t.Helper()

	vehicle := &models.Vehicle{
		Model:  "Onix",
		Brand:  "Chevrolet",
		Year:   2023,
		Price:  decimal.NewFromInt(78900),
		Active: true,
	}
	if err := conn.Create(vehicle).Error; err != nil {
		t.Fatalf("create test vehicle: %v", err)
	}
	if vehicle.ID == uuid.Nil {
		t.Fatal("expected vehicle id to be generated")
	}
	return vehicle
}
