package vehicles

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

// categoryDirectory is the slice of the category service the vehicle service
// depends on.
type categoryDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// stockCleaner removes a vehicle's stock row when the vehicle is deleted.
type stockCleaner interface {
	DeleteByVehicle(ctx context.Context, vehicleID uuid.UUID) error
}

// Service exposes the vehicle catalog operations.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]VehicleDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*VehicleDTO, error)
	Create(ctx context.Context, input CreateVehicleInput) (*VehicleDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type service struct {
	repo       *Repository
	categories categoryDirectory
	stock      stockCleaner
	logg       *logger.Logger
}

// NewService wires the vehicle service. The stock cleaner may be attached
// later via BindStock because the stock service depends on vehicles too.
func NewService(repo *Repository, categories categoryDirectory, logg *logger.Logger) *service {
	return &service{
		repo:       repo,
		categories: categories,
		logg:       logg,
	}
}

// BindStock attaches the stock cleanup collaborator after construction.
func (s *service) BindStock(stock stockCleaner) {
	s.stock = stock
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]VehicleDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing vehicles")
	}
	return FromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading vehicle")
	}
	if vehicle == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return FromModel(vehicle), nil
}

func (s *service) Create(ctx context.Context, input CreateVehicleInput) (*VehicleDTO, error) {
	if err := s.validateCreate(ctx, input); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	vehicle := &models.Vehicle{
		CategoryID:  input.CategoryID,
		Model:       strings.TrimSpace(input.Model),
		Brand:       strings.TrimSpace(input.Brand),
		Year:        input.Year,
		Color:       input.Color,
		Mileage:     input.Mileage,
		Price:       input.Price,
		Description: input.Description,
		Active:      active,
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating vehicle")
	}
	return FromModel(vehicle), nil
}

func (s *service) validateCreate(ctx context.Context, input CreateVehicleInput) error {
	if strings.TrimSpace(input.Model) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "model is required")
	}
	if strings.TrimSpace(input.Brand) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	}
	if err := validateYear(input.Year); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return s.validateCategory(ctx, input.CategoryID)
}

func (s *service) validateCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	exists, err := s.categories.Exists(ctx, *categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking category")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
	}
	return nil
}

func validateYear(year int) error {
	// One model year ahead covers next-year launches sold in advance.
	if year < 1900 || year > time.Now().Year()+1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "year is out of range")
	}
	return nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading vehicle")
	}
	if vehicle == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}

	if input.CategoryID != nil {
		if err := s.validateCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		vehicle.CategoryID = input.CategoryID
	}
	if input.Model != nil {
		if strings.TrimSpace(*input.Model) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "model must not be empty")
		}
		vehicle.Model = strings.TrimSpace(*input.Model)
	}
	if input.Brand != nil {
		if strings.TrimSpace(*input.Brand) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand must not be empty")
		}
		vehicle.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Year != nil {
		if err := validateYear(*input.Year); err != nil {
			return nil, err
		}
		vehicle.Year = *input.Year
	}
	if input.Color != nil {
		vehicle.Color = input.Color
	}
	if input.Mileage != nil {
		vehicle.Mileage = input.Mileage
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		vehicle.Price = *input.Price
	}
	if input.Description != nil {
		vehicle.Description = input.Description
	}
	if input.Active != nil {
		vehicle.Active = *input.Active
	}

	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating vehicle")
	}
	return FromModel(vehicle), nil
}

// Delete removes a vehicle and its stock row. Absent ids are a no-op.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading vehicle")
	}
	if vehicle == nil {
		return nil
	}

	if s.stock != nil {
		if err := s.stock.DeleteByVehicle(ctx, id); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting vehicle")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "vehicle_id", id), "vehicle removed from catalog")
	}
	return nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}

func (s *service) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListActiveIDs(ctx)
}
