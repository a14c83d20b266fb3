package dashboard

import (
	"context"

	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

// SummaryDTO is the admin landing page snapshot.
type SummaryDTO struct {
	Customers        int64 `json:"customers"`
	VehiclesInStock  int64 `json:"vehicles_in_stock"`
	UnitsInStock     int64 `json:"units_in_stock"`
	OpenLeads        int64 `json:"open_leads"`
	SalesRecorded    int64 `json:"sales_recorded"`
	PublishedReviews int64 `json:"published_reviews"`
}

// Service aggregates counts for the admin dashboard.
type Service interface {
	Summary(ctx context.Context) (*SummaryDTO, error)
}

type service struct {
	db *gorm.DB
}

// NewService wires the dashboard service. It reads across tables directly
// because every number is a plain count.
func NewService(db *gorm.DB) Service {
	return &service{db: db}
}

func (s *service) Summary(ctx context.Context) (*SummaryDTO, error) {
	summary := &SummaryDTO{}

	q := s.db.WithContext(ctx)
	if err := q.Model(&models.User{}).Count(&summary.Customers).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting customers")
	}
	if err := q.Model(&models.StockItem{}).Where("quantity > 0").Count(&summary.VehiclesInStock).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting stocked vehicles")
	}

	var units *int64
	err := q.Model(&models.StockItem{}).
		Select("SUM(quantity)").
		Scan(&units).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing stock units")
	}
	if units != nil {
		summary.UnitsInStock = *units
	}

	var pendingAppointments int64
	if err := q.Model(&models.Appointment{}).Where("status = ?", models.AppointmentPending).Count(&pendingAppointments).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting appointments")
	}
	var interests int64
	if err := q.Model(&models.InterestLead{}).Count(&interests).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting interest leads")
	}
	summary.OpenLeads = pendingAppointments + interests

	if err := q.Model(&models.Sale{}).Count(&summary.SalesRecorded).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting sales")
	}
	if err := q.Model(&models.Testimonial{}).Where("approved = ?", true).Count(&summary.PublishedReviews).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting testimonials")
	}

	return summary, nil
}
