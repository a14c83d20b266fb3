package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/config"
	"github.com/veloxmotors/dealership-backend/pkg/db"
	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

type fakeVehicleDirectory struct {
	known  map[uuid.UUID]bool
	active []uuid.UUID
}

func (f *fakeVehicleDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

func (f *fakeVehicleDirectory) ListActiveIDs(_ context.Context) ([]uuid.UUID, error) {
	return f.active, nil
}

func newTestService(t *testing.T, conn *gorm.DB, vehicles *fakeVehicleDirectory, cfg config.StockConfig) Service {
	t.Helper()
	if cfg.DefaultLocation == "" {
		cfg.DefaultLocation = models.DefaultStockLocation
	}
	return NewService(NewRepository(conn), db.FromConn(conn), vehicles, nil, cfg)
}

func registerVehicle(t *testing.T, conn *gorm.DB, dir *fakeVehicleDirectory) uuid.UUID {
	t.Helper()
	vehicle := mustCreateTestVehicle(t, conn)
	dir.known[vehicle.ID] = true
	dir.active = append(dir.active, vehicle.ID)
	return vehicle.ID
}

func TestServiceUpsertCreatesWithDefaults(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{RepairZero: true})
	ctx := context.Background()

	vehicleID := registerVehicle(t, conn, dir)

	dto, created, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatal("expected created=true for a new row")
	}
	if dto.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", dto.Quantity)
	}
	if dto.Location != models.DefaultStockLocation {
		t.Fatalf("expected default location, got %q", dto.Location)
	}
	if !dto.Exists {
		t.Fatal("expected exists=true for stored row")
	}
}

func TestServiceUpsertUpdatesAndRetainsOmittedFields(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{RepairZero: true})
	ctx := context.Background()

	vehicleID := registerVehicle(t, conn, dir)

	quantity := 7
	location := "Filial Norte"
	if _, _, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID, Quantity: &quantity, Location: &location}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	newQuantity := 3
	dto, created, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID, Quantity: &newQuantity})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatal("expected created=false for an existing row")
	}
	if dto.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", dto.Quantity)
	}
	if dto.Location != "Filial Norte" {
		t.Fatalf("expected location retained, got %q", dto.Location)
	}

	count, err := NewRepository(conn).CountByVehicleID(ctx, vehicleID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row per vehicle, got %d", count)
	}
}

func TestServiceUpsertUnknownVehicle(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, UpsertInput{VehicleID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpsertValidation(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	if _, _, err := svc.Upsert(ctx, UpsertInput{}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing vehicle id, got %v", err)
	}

	vehicleID := registerVehicle(t, conn, dir)
	negative := -2
	if _, _, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID, Quantity: &negative}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative quantity, got %v", err)
	}
}

func TestServiceGetByVehiclePlaceholder(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	dto, err := svc.GetByVehicle(ctx, uuid.New())
	if err != nil {
		t.Fatalf("get by vehicle: %v", err)
	}
	if dto.Exists {
		t.Fatal("expected exists=false for vehicle without stock")
	}
	if dto.Quantity != 0 {
		t.Fatalf("expected placeholder quantity 0, got %d", dto.Quantity)
	}
	if dto.Location != models.DefaultStockLocation {
		t.Fatalf("expected default location, got %q", dto.Location)
	}
	if dto.ID != nil {
		t.Fatalf("expected no id on placeholder, got %v", dto.ID)
	}
}

func TestServiceReduceQuantity(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	vehicleID := registerVehicle(t, conn, dir)
	quantity := 5
	if _, _, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID, Quantity: &quantity}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := svc.ReduceQuantity(ctx, vehicleID, 2)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if result.Previous != 5 || result.Current != 3 {
		t.Fatalf("expected 5 -> 3, got %d -> %d", result.Previous, result.Current)
	}
}

func TestServiceReduceQuantityInsufficient(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	vehicleID := registerVehicle(t, conn, dir)
	quantity := 1
	if _, _, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID, Quantity: &quantity}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := svc.ReduceQuantity(ctx, vehicleID, 2)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	// The failed decrement must leave the stored quantity untouched.
	dto, err := svc.GetByVehicle(ctx, vehicleID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if dto.Quantity != 1 {
		t.Fatalf("expected quantity still 1, got %d", dto.Quantity)
	}
}

func TestServiceReduceQuantityAbsentRow(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	_, err := svc.ReduceQuantity(ctx, uuid.New(), 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceIncreaseQuantityCreatesRow(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	vehicleID := registerVehicle(t, conn, dir)

	result, err := svc.IncreaseQuantity(ctx, vehicleID, 4)
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	if result.Previous != 0 || result.Current != 4 {
		t.Fatalf("expected 0 -> 4, got %d -> %d", result.Previous, result.Current)
	}

	dto, err := svc.GetByVehicle(ctx, vehicleID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !dto.Exists || dto.Quantity != 4 {
		t.Fatalf("expected stored quantity 4, got %+v", dto)
	}
}

func TestServiceIncreaseQuantityExistingRow(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	vehicleID := registerVehicle(t, conn, dir)
	quantity := 2
	if _, _, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID, Quantity: &quantity}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := svc.IncreaseQuantity(ctx, vehicleID, 3)
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	if result.Previous != 2 || result.Current != 5 {
		t.Fatalf("expected 2 -> 5, got %d -> %d", result.Previous, result.Current)
	}
}

func TestServiceCheckAvailability(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	vehicleID := registerVehicle(t, conn, dir)
	quantity := 2
	if _, _, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID, Quantity: &quantity}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		name      string
		vehicleID uuid.UUID
		needed    int
		want      bool
	}{
		{"zero demand", vehicleID, 0, true},
		{"negative demand", vehicleID, -3, true},
		{"covered", vehicleID, 2, true},
		{"not covered", vehicleID, 3, false},
		{"absent vehicle", uuid.New(), 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.CheckAvailability(ctx, tc.vehicleID, tc.needed)
			if err != nil {
				t.Fatalf("check availability: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestServiceRevalidateAddsAndRepairs(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{RepairZero: true})
	ctx := context.Background()

	missing := registerVehicle(t, conn, dir)
	zeroed := registerVehicle(t, conn, dir)
	healthy := registerVehicle(t, conn, dir)

	repo := NewRepository(conn)
	if _, err := repo.Insert(ctx, zeroed, 1, ""); err != nil {
		t.Fatalf("seed zeroed: %v", err)
	}
	if _, err := repo.DecrementQuantity(ctx, zeroed, 1); err != nil {
		t.Fatalf("drain zeroed: %v", err)
	}
	if _, err := repo.Insert(ctx, healthy, 4, ""); err != nil {
		t.Fatalf("seed healthy: %v", err)
	}

	result, err := svc.Revalidate(ctx)
	if err != nil {
		t.Fatalf("revalidate: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected total 3, got %d", result.Total)
	}
	if result.Added != 1 {
		t.Fatalf("expected 1 added, got %d", result.Added)
	}
	if result.Updated != 1 {
		t.Fatalf("expected 1 repaired, got %d", result.Updated)
	}

	for _, id := range []uuid.UUID{missing, zeroed} {
		dto, err := svc.GetByVehicle(ctx, id)
		if err != nil {
			t.Fatalf("reload %s: %v", id, err)
		}
		if dto.Quantity != 1 {
			t.Fatalf("expected quantity 1 after sweep, got %d", dto.Quantity)
		}
	}

	dto, err := svc.GetByVehicle(ctx, healthy)
	if err != nil {
		t.Fatalf("reload healthy: %v", err)
	}
	if dto.Quantity != 4 {
		t.Fatalf("expected healthy row untouched, got %d", dto.Quantity)
	}
}

func TestServiceRevalidateRepairZeroDisabled(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{RepairZero: false})
	ctx := context.Background()

	zeroed := registerVehicle(t, conn, dir)
	repo := NewRepository(conn)
	if _, err := repo.Insert(ctx, zeroed, 1, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.DecrementQuantity(ctx, zeroed, 1); err != nil {
		t.Fatalf("drain: %v", err)
	}

	result, err := svc.Revalidate(ctx)
	if err != nil {
		t.Fatalf("revalidate: %v", err)
	}
	if result.Updated != 0 {
		t.Fatalf("expected no repairs with RepairZero off, got %d", result.Updated)
	}

	dto, err := svc.GetByVehicle(ctx, zeroed)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if dto.Quantity != 0 {
		t.Fatalf("expected sold-out row preserved, got %d", dto.Quantity)
	}
}

func TestServiceRevalidateIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{RepairZero: true})
	ctx := context.Background()

	registerVehicle(t, conn, dir)
	registerVehicle(t, conn, dir)

	if _, err := svc.Revalidate(ctx); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	second, err := svc.Revalidate(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second.Added != 0 || second.Updated != 0 {
		t.Fatalf("expected second sweep to change nothing, got %+v", second)
	}
}

func TestServiceDeleteByVehicle(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	vehicleID := registerVehicle(t, conn, dir)
	if _, _, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.DeleteByVehicle(ctx, vehicleID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting again is a no-op.
	if err := svc.DeleteByVehicle(ctx, vehicleID); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	dto, err := svc.GetByVehicle(ctx, vehicleID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if dto.Exists {
		t.Fatal("expected placeholder after delete")
	}
}

func TestServiceUpdateRetainsOmittedFields(t *testing.T) {
	conn := openTestDB(t)
	dir := &fakeVehicleDirectory{known: map[uuid.UUID]bool{}}
	svc := newTestService(t, conn, dir, config.StockConfig{})
	ctx := context.Background()

	vehicleID := registerVehicle(t, conn, dir)
	quantity := 6
	location := "Filial Sul"
	dto, _, err := svc.Upsert(ctx, UpsertInput{VehicleID: vehicleID, Quantity: &quantity, Location: &location})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	newQuantity := 2
	updated, err := svc.Update(ctx, *dto.ID, UpdateInput{Quantity: &newQuantity})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", updated.Quantity)
	}
	if updated.Location != "Filial Sul" {
		t.Fatalf("expected location retained, got %q", updated.Location)
	}

	if _, err := svc.Update(ctx, uuid.New(), UpdateInput{Quantity: &newQuantity}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for absent id, got %v", err)
	}
}
