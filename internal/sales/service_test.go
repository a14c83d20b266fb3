package sales

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/internal/stock"
	"github.com/veloxmotors/dealership-backend/internal/vehicles"
	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

var testDBSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:sales_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Sale{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

type fakeStock struct {
	quantities map[uuid.UUID]int
	reduced    int
	restored   int
}

func (f *fakeStock) ReduceQuantity(_ context.Context, vehicleID uuid.UUID, amount int) (*stock.AdjustmentResult, error) {
	available := f.quantities[vehicleID]
	if available < amount {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock")
	}
	f.quantities[vehicleID] = available - amount
	f.reduced += amount
	return &stock.AdjustmentResult{VehicleID: vehicleID, Previous: available, Current: available - amount}, nil
}

func (f *fakeStock) IncreaseQuantity(_ context.Context, vehicleID uuid.UUID, amount int) (*stock.AdjustmentResult, error) {
	f.quantities[vehicleID] += amount
	f.restored += amount
	return &stock.AdjustmentResult{VehicleID: vehicleID}, nil
}

type fakeCatalog struct {
	byID map[uuid.UUID]*vehicles.VehicleDTO
}

func (f *fakeCatalog) GetByID(_ context.Context, id uuid.UUID) (*vehicles.VehicleDTO, error) {
	if dto, ok := f.byID[id]; ok {
		return dto, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
}

type fakeCustomers struct {
	known map[uuid.UUID]bool
}

func (f *fakeCustomers) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

func newSaleFixture(t *testing.T) (Service, *fakeStock, *fakeCatalog, *fakeCustomers, uuid.UUID) {
	t.Helper()
	conn := openTestDB(t)

	vehicleID := uuid.New()
	stockSvc := &fakeStock{quantities: map[uuid.UUID]int{vehicleID: 2}}
	catalog := &fakeCatalog{byID: map[uuid.UUID]*vehicles.VehicleDTO{
		vehicleID: {ID: vehicleID, Model: "Compass", Brand: "Jeep", Year: 2023, Price: decimal.NewFromInt(180000)},
	}}
	customers := &fakeCustomers{known: map[uuid.UUID]bool{}}

	svc := NewService(NewRepository(conn), stockSvc, catalog, customers, nil)
	return svc, stockSvc, catalog, customers, vehicleID
}

func TestServiceCreateConsumesStockAndDefaultsPrice(t *testing.T) {
	svc, stockSvc, _, _, vehicleID := newSaleFixture(t)
	ctx := context.Background()

	sale, err := svc.Create(ctx, CreateSaleInput{VehicleID: vehicleID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !sale.Price.Equal(decimal.NewFromInt(180000)) {
		t.Fatalf("expected listed price, got %s", sale.Price)
	}
	if sale.SoldAt.IsZero() {
		t.Fatal("expected sold_at to be set")
	}
	if stockSvc.quantities[vehicleID] != 1 {
		t.Fatalf("expected stock reduced to 1, got %d", stockSvc.quantities[vehicleID])
	}

	listed, err := svc.ListByVehicle(ctx, vehicleID)
	if err != nil {
		t.Fatalf("list by vehicle: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(listed))
	}
}

func TestServiceCreateRejectsOversell(t *testing.T) {
	svc, stockSvc, _, _, vehicleID := newSaleFixture(t)
	ctx := context.Background()

	stockSvc.quantities[vehicleID] = 0

	_, err := svc.Create(ctx, CreateSaleInput{VehicleID: vehicleID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	sales, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("expected no sale recorded, got %d", len(sales))
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _, _, _, vehicleID := newSaleFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateSaleInput{}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing vehicle, got %v", err)
	}

	negative := decimal.NewFromInt(-5)
	if _, err := svc.Create(ctx, CreateSaleInput{VehicleID: vehicleID, Price: &negative}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	if _, err := svc.Create(ctx, CreateSaleInput{VehicleID: uuid.New()}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown vehicle, got %v", err)
	}

	buyer := uuid.New()
	if _, err := svc.Create(ctx, CreateSaleInput{VehicleID: vehicleID, UserID: &buyer}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown customer, got %v", err)
	}
}

func TestServiceCreateWithKnownCustomer(t *testing.T) {
	svc, _, _, customers, vehicleID := newSaleFixture(t)
	ctx := context.Background()

	buyer := uuid.New()
	customers.known[buyer] = true

	agreed := decimal.NewFromInt(175000)
	sale, err := svc.Create(ctx, CreateSaleInput{VehicleID: vehicleID, UserID: &buyer, Price: &agreed})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sale.UserID == nil || *sale.UserID != buyer {
		t.Fatalf("expected buyer recorded, got %v", sale.UserID)
	}
	if !sale.Price.Equal(agreed) {
		t.Fatalf("expected agreed price, got %s", sale.Price)
	}

	fetched, err := svc.GetByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.ID != sale.ID {
		t.Fatalf("unexpected sale %+v", fetched)
	}
}
