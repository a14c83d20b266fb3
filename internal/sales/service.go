package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veloxmotors/dealership-backend/internal/stock"
	"github.com/veloxmotors/dealership-backend/internal/vehicles"
	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

// stockAdjuster is the slice of the stock service the sales flow depends on.
type stockAdjuster interface {
	ReduceQuantity(ctx context.Context, vehicleID uuid.UUID, amount int) (*stock.AdjustmentResult, error)
	IncreaseQuantity(ctx context.Context, vehicleID uuid.UUID, amount int) (*stock.AdjustmentResult, error)
}

// vehicleCatalog exposes the vehicle lookups the sales flow needs.
type vehicleCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*vehicles.VehicleDTO, error)
}

// customerDirectory checks buyer references.
type customerDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SaleDTO is the response shape for a recorded sale.
type SaleDTO struct {
	ID        uuid.UUID       `json:"id"`
	VehicleID uuid.UUID       `json:"vehicle_id"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	Price     decimal.Decimal `json:"price"`
	SoldAt    time.Time       `json:"sold_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateSaleInput captures a sale being recorded. A nil price falls back to
// the vehicle's listed price.
type CreateSaleInput struct {
	VehicleID uuid.UUID
	UserID    *uuid.UUID
	Price     *decimal.Decimal
	SoldAt    *time.Time
}

// Service records sales. Each sale consumes one unit of the vehicle's stock
// through the guarded decrement, so overselling is rejected rather than
// silently recorded.
type Service interface {
	List(ctx context.Context) ([]SaleDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SaleDTO, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]SaleDTO, error)
	Create(ctx context.Context, input CreateSaleInput) (*SaleDTO, error)
}

type service struct {
	repo      *Repository
	stock     stockAdjuster
	vehicles  vehicleCatalog
	customers customerDirectory
	logg      *logger.Logger
}

// NewService wires the sales service.
func NewService(repo *Repository, stockSvc stockAdjuster, vehiclesSvc vehicleCatalog, customers customerDirectory, logg *logger.Logger) Service {
	return &service{
		repo:      repo,
		stock:     stockSvc,
		vehicles:  vehiclesSvc,
		customers: customers,
		logg:      logg,
	}
}

func fromModel(row *models.Sale) *SaleDTO {
	if row == nil {
		return nil
	}
	return &SaleDTO{
		ID:        row.ID,
		VehicleID: row.VehicleID,
		UserID:    row.UserID,
		Price:     row.Price,
		SoldAt:    row.SoldAt,
		CreatedAt: row.CreatedAt,
	}
}

func fromModels(rows []models.Sale) []SaleDTO {
	dtos := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i]))
	}
	return dtos
}

func (s *service) List(ctx context.Context) ([]SaleDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sales")
	}
	return fromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*SaleDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sale")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	return fromModel(row), nil
}

func (s *service) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]SaleDTO, error) {
	rows, err := s.repo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing vehicle sales")
	}
	return fromModels(rows), nil
}

func (s *service) Create(ctx context.Context, input CreateSaleInput) (*SaleDTO, error) {
	if input.VehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	vehicle, err := s.vehicles.GetByID(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}

	if input.UserID != nil {
		exists, err := s.customers.Exists(ctx, *input.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking customer")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer not found")
		}
	}

	price := vehicle.Price
	if input.Price != nil {
		price = *input.Price
	}

	if _, err := s.stock.ReduceQuantity(ctx, input.VehicleID, 1); err != nil {
		return nil, err
	}

	sale := &models.Sale{
		VehicleID: input.VehicleID,
		UserID:    input.UserID,
		Price:     price,
	}
	if input.SoldAt != nil {
		sale.SoldAt = *input.SoldAt
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		// Return the reserved unit so a storage failure does not leak stock.
		if _, restoreErr := s.stock.IncreaseQuantity(ctx, input.VehicleID, 1); restoreErr != nil && s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "vehicle_id", input.VehicleID), "failed to restore stock after sale write error", restoreErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording sale")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"sale_id":    sale.ID,
			"vehicle_id": sale.VehicleID,
		}), "sale recorded")
	}
	return fromModel(sale), nil
}
