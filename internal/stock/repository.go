package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

// VehicleUniqueIndex is the index backing the one-row-per-vehicle rule.
const VehicleUniqueIndex = "idx_stock_items_vehicle_id"

// VehicleStockRow is a stock row joined with the vehicle display fields used
// by list views.
type VehicleStockRow struct {
	ID           uuid.UUID `json:"id"`
	VehicleID    uuid.UUID `json:"vehicle_id"`
	Quantity     int       `json:"quantity"`
	Location     string    `json:"location"`
	VehicleModel string    `json:"vehicle_model"`
	VehicleBrand string    `json:"vehicle_brand"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository owns stock persistence. No business rules live here; the service
// layers validation and cross-entity checks on top.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to stock operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns every stock row joined with vehicle model/brand, most recently
// updated first.
func (r *Repository) List(ctx context.Context) ([]VehicleStockRow, error) {
	var rows []VehicleStockRow
	err := r.db.WithContext(ctx).
		Table("stock_items AS s").
		Select("s.id, s.vehicle_id, s.quantity, s.location, s.updated_at, v.model AS vehicle_model, v.brand AS vehicle_brand").
		Joins("JOIN vehicles v ON v.id = s.vehicle_id").
		Order("s.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a stock row by primary key. Absence returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindByVehicleID loads the at-most-one stock row for a vehicle. Absence
// returns (nil, nil).
func (r *Repository) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*models.StockItem, error) {
	return r.findByVehicleID(ctx, vehicleID, false)
}

// FindByVehicleIDForUpdate is FindByVehicleID with a row lock, for use inside
// a transaction so read-then-write sequences do not race.
func (r *Repository) FindByVehicleIDForUpdate(ctx context.Context, vehicleID uuid.UUID) (*models.StockItem, error) {
	return r.findByVehicleID(ctx, vehicleID, true)
}

func (r *Repository) findByVehicleID(ctx context.Context, vehicleID uuid.UUID, lock bool) (*models.StockItem, error) {
	q := r.db.WithContext(ctx)
	// sqlite (used by tests) has no SELECT ... FOR UPDATE
	if lock && q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item models.StockItem
	err := q.First(&item, "vehicle_id = ?", vehicleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Insert creates a stock row. Quantity defaults to 1 and location to the
// standard default when the zero values are passed.
func (r *Repository) Insert(ctx context.Context, vehicleID uuid.UUID, quantity int, location string) (*models.StockItem, error) {
	if quantity == 0 {
		quantity = 1
	}
	if location == "" {
		location = models.DefaultStockLocation
	}
	item := &models.StockItem{
		VehicleID: vehicleID,
		Quantity:  quantity,
		Location:  location,
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces the two mutable fields of a stock row. Negative quantities
// are rejected here so every caller inherits the non-negative invariant.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, quantity int, location string) (*models.StockItem, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if location == "" {
		location = models.DefaultStockLocation
	}
	item, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	item.Quantity = quantity
	item.Location = location
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// IncrementQuantity applies quantity = quantity + delta in a single statement.
func (r *Repository) IncrementQuantity(ctx context.Context, vehicleID uuid.UUID, delta int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("vehicle_id = ?", vehicleID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// DecrementQuantity applies quantity = quantity - delta only when the current
// quantity covers the delta. The check and the write happen in one statement,
// so concurrent decrements either affect one row or zero rows and can never
// drive the quantity negative.
func (r *Repository) DecrementQuantity(ctx context.Context, vehicleID uuid.UUID, delta int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("vehicle_id = ? AND quantity >= ?", vehicleID, delta).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", delta),
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// Delete removes a stock row. Deleting an absent id is a no-op.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.StockItem{}).Error
}

// CountByVehicleID reports how many rows reference a vehicle. The service
// keeps this at most 1; the counter exists so sweeps and tests can verify it.
func (r *Repository) CountByVehicleID(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("vehicle_id = ?", vehicleID).
		Count(&count).Error
	return count, err
}
