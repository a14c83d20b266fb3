package stock

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/config"
	"github.com/veloxmotors/dealership-backend/pkg/db"
	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

// vehicleDirectory is the slice of the vehicle service the stock coordinator
// depends on.
type vehicleDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Service coordinates stock operations and enforces the one-row-per-vehicle
// and non-negative-quantity rules above the repository.
type Service interface {
	List(ctx context.Context) ([]VehicleStockRow, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StockDTO, error)
	GetByVehicle(ctx context.Context, vehicleID uuid.UUID) (*StockDTO, error)
	Upsert(ctx context.Context, input UpsertInput) (*StockDTO, bool, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*StockDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByVehicle(ctx context.Context, vehicleID uuid.UUID) error
	ReduceQuantity(ctx context.Context, vehicleID uuid.UUID, amount int) (*AdjustmentResult, error)
	IncreaseQuantity(ctx context.Context, vehicleID uuid.UUID, amount int) (*AdjustmentResult, error)
	CheckAvailability(ctx context.Context, vehicleID uuid.UUID, needed int) (bool, error)
	Revalidate(ctx context.Context) (*RevalidateResult, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	vehicles vehicleDirectory
	logg     *logger.Logger
	cfg      config.StockConfig
}

// NewService wires the stock coordinator.
func NewService(repo *Repository, dbClient *db.Client, vehicles vehicleDirectory, logg *logger.Logger, cfg config.StockConfig) Service {
	return &service{
		repo:     repo,
		dbClient: dbClient,
		vehicles: vehicles,
		logg:     logg,
		cfg:      cfg,
	}
}

func (s *service) List(ctx context.Context) ([]VehicleStockRow, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing stock")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StockDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock record")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
	}
	return toDTO(item), nil
}

// GetByVehicle never 404s: a vehicle without a row yields the zero-quantity
// placeholder so clients can render "out of stock" uniformly.
func (s *service) GetByVehicle(ctx context.Context, vehicleID uuid.UUID) (*StockDTO, error) {
	if vehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	item, err := s.repo.FindByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock by vehicle")
	}
	if item == nil {
		dto := placeholderDTO(vehicleID)
		dto.Location = s.defaultLocation()
		return dto, nil
	}
	return toDTO(item), nil
}

// Upsert creates or updates the single stock row for a vehicle. The second
// return value reports whether a new row was created. Omitted fields keep
// their stored values on update.
func (s *service) Upsert(ctx context.Context, input UpsertInput) (*StockDTO, bool, error) {
	if input.VehicleID == uuid.Nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	exists, err := s.vehicles.Exists(ctx, input.VehicleID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking vehicle")
	}
	if !exists {
		return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}

	var (
		result  *models.StockItem
		created bool
	)
	attempt := func() error {
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			current, err := repo.FindByVehicleIDForUpdate(ctx, input.VehicleID)
			if err != nil {
				return err
			}
			if current == nil {
				quantity := 1
				if input.Quantity != nil {
					quantity = *input.Quantity
				}
				location := s.defaultLocation()
				if input.Location != nil && *input.Location != "" {
					location = *input.Location
				}
				item := &models.StockItem{
					VehicleID: input.VehicleID,
					Quantity:  quantity,
					Location:  location,
				}
				if err := tx.WithContext(ctx).Create(item).Error; err != nil {
					return err
				}
				result, created = item, true
				return nil
			}
			if input.Quantity != nil {
				current.Quantity = *input.Quantity
			}
			if input.Location != nil && *input.Location != "" {
				current.Location = *input.Location
			}
			if err := tx.WithContext(ctx).Save(current).Error; err != nil {
				return err
			}
			result, created = current, false
			return nil
		})
	}

	if err := attempt(); err != nil {
		// A concurrent insert can slip in between the locked read and our
		// create. The unique index turns that into a violation; the retry
		// finds the winner's row and updates it instead.
		if !db.IsUniqueViolation(err, "") {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upserting stock")
		}
		if err := attempt(); err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "upserting stock after retry")
		}
	}

	return toDTO(result), created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*StockDTO, error) {
	if input.Quantity == nil && input.Location == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock record")
	}
	if current == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
	}

	quantity := current.Quantity
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	location := current.Location
	if input.Location != nil && *input.Location != "" {
		location = *input.Location
	}

	updated, err := s.repo.Update(ctx, id, quantity, location)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating stock record")
	}
	if updated == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
	}
	return toDTO(updated), nil
}

// Delete removes a stock row by id. Absent ids are a no-op.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting stock record")
	}
	return nil
}

// DeleteByVehicle removes the stock row for a vehicle, used when the vehicle
// itself is deleted.
func (s *service) DeleteByVehicle(ctx context.Context, vehicleID uuid.UUID) error {
	item, err := s.repo.FindByVehicleID(ctx, vehicleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock by vehicle")
	}
	if item == nil {
		return nil
	}
	return s.Delete(ctx, item.ID)
}

// ReduceQuantity decrements a vehicle's stock atomically. The guard lives in
// the UPDATE itself, so two concurrent sales of the last unit cannot both
// succeed.
func (s *service) ReduceQuantity(ctx context.Context, vehicleID uuid.UUID, amount int) (*AdjustmentResult, error) {
	if vehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	var result *AdjustmentResult
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByVehicleIDForUpdate(ctx, vehicleID)
		if err != nil {
			return err
		}
		if current == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no stock record for vehicle")
		}
		affected, err := repo.DecrementQuantity(ctx, vehicleID, amount)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{
					"vehicle_id": vehicleID,
					"available":  current.Quantity,
					"requested":  amount,
				})
		}
		result = &AdjustmentResult{
			VehicleID: vehicleID,
			Previous:  current.Quantity,
			Current:   current.Quantity - amount,
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reducing stock")
	}
	return result, nil
}

// IncreaseQuantity increments a vehicle's stock, creating the row with the
// given amount when the vehicle has none yet.
func (s *service) IncreaseQuantity(ctx context.Context, vehicleID uuid.UUID, amount int) (*AdjustmentResult, error) {
	if vehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	var result *AdjustmentResult
	attempt := func() error {
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			current, err := repo.FindByVehicleIDForUpdate(ctx, vehicleID)
			if err != nil {
				return err
			}
			if current == nil {
				item := &models.StockItem{
					VehicleID: vehicleID,
					Quantity:  amount,
					Location:  s.defaultLocation(),
				}
				if err := tx.WithContext(ctx).Create(item).Error; err != nil {
					return err
				}
				result = &AdjustmentResult{VehicleID: vehicleID, Previous: 0, Current: amount}
				return nil
			}
			if _, err := repo.IncrementQuantity(ctx, vehicleID, amount); err != nil {
				return err
			}
			result = &AdjustmentResult{
				VehicleID: vehicleID,
				Previous:  current.Quantity,
				Current:   current.Quantity + amount,
			}
			return nil
		})
	}
	if err := attempt(); err != nil {
		if !db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increasing stock")
		}
		if err := attempt(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "increasing stock after retry")
		}
	}
	return result, nil
}

// CheckAvailability reports whether the vehicle has at least `needed` units.
// Non-positive demand is always satisfiable; absent rows never are.
func (s *service) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, needed int) (bool, error) {
	if vehicleID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	if needed <= 0 {
		return true, nil
	}
	item, err := s.repo.FindByVehicleID(ctx, vehicleID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking availability")
	}
	if item == nil {
		return false, nil
	}
	return item.Quantity >= needed, nil
}

// Revalidate sweeps every active vehicle and repairs its stock row: vehicles
// without a row get one with quantity 1, and, when RepairZero is enabled,
// rows at or below zero are reset to 1. Per-vehicle failures are logged and
// skipped so one bad row cannot abort the sweep.
func (s *service) Revalidate(ctx context.Context) (*RevalidateResult, error) {
	ids, err := s.vehicles.ListActiveIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing active vehicles")
	}

	result := &RevalidateResult{Total: len(ids)}
	var sweepErrs error
	for _, id := range ids {
		added, updated, err := s.revalidateVehicle(ctx, id)
		if err != nil {
			sweepErrs = multierr.Append(sweepErrs, err)
			if s.logg != nil {
				s.logg.Error(s.logg.WithField(ctx, "vehicle_id", id), "stock revalidation failed for vehicle", err)
			}
			continue
		}
		if added {
			result.Added++
		}
		if updated {
			result.Updated++
		}
	}
	if sweepErrs != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "failures", len(multierr.Errors(sweepErrs))), "stock revalidation finished with failures")
	}
	return result, nil
}

func (s *service) revalidateVehicle(ctx context.Context, vehicleID uuid.UUID) (added, updated bool, err error) {
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByVehicleIDForUpdate(ctx, vehicleID)
		if err != nil {
			return err
		}
		if current == nil {
			item := &models.StockItem{
				VehicleID: vehicleID,
				Quantity:  1,
				Location:  s.defaultLocation(),
			}
			if err := tx.WithContext(ctx).Create(item).Error; err != nil {
				return err
			}
			added = true
			return nil
		}
		if s.cfg.RepairZero && current.Quantity <= 0 {
			current.Quantity = 1
			if err := tx.WithContext(ctx).Save(current).Error; err != nil {
				return err
			}
			updated = true
		}
		return nil
	})
	return added, updated, err
}

func (s *service) defaultLocation() string {
	if s.cfg.DefaultLocation != "" {
		return s.cfg.DefaultLocation
	}
	return models.DefaultStockLocation
}
