package dashboard

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
)

var testDBSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:dashboard_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.StockItem{},
		&models.Sale{},
		&models.Appointment{},
		&models.InterestLead{},
		&models.Testimonial{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func TestServiceSummaryEmptyDatabase(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Customers != 0 || summary.VehiclesInStock != 0 || summary.UnitsInStock != 0 {
		t.Fatalf("expected zeroed summary, got %+v", summary)
	}
}

func TestServiceSummaryCounts(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)
	ctx := context.Background()

	if err := conn.Create(&models.User{Name: "Ana", Email: "ana@example.com"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	stocked := &models.Vehicle{Model: "Onix", Brand: "Chevrolet", Year: 2023, Price: decimal.NewFromInt(80000), Active: true}
	soldOut := &models.Vehicle{Model: "Polo", Brand: "Volkswagen", Year: 2021, Price: decimal.NewFromInt(90000), Active: true}
	for _, v := range []*models.Vehicle{stocked, soldOut} {
		if err := conn.Create(v).Error; err != nil {
			t.Fatalf("seed vehicle: %v", err)
		}
	}
	if err := conn.Create(&models.StockItem{VehicleID: stocked.ID, Quantity: 3}).Error; err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	if err := conn.Create(&models.StockItem{VehicleID: soldOut.ID, Quantity: 0, Location: "Matriz"}).Error; err != nil {
		t.Fatalf("seed sold out stock: %v", err)
	}

	if err := conn.Create(&models.Sale{VehicleID: soldOut.ID, Price: decimal.NewFromInt(88000)}).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}

	if err := conn.Create(&models.Appointment{
		VehicleID:    stocked.ID,
		CustomerName: "Marcos",
		Email:        "marcos@example.com",
		ScheduledFor: time.Now().Add(24 * time.Hour),
	}).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	canceled := &models.Appointment{
		VehicleID:    stocked.ID,
		CustomerName: "Lia",
		Email:        "lia@example.com",
		ScheduledFor: time.Now().Add(48 * time.Hour),
		Status:       models.AppointmentCanceled,
	}
	if err := conn.Create(canceled).Error; err != nil {
		t.Fatalf("seed canceled appointment: %v", err)
	}
	if err := conn.Create(&models.InterestLead{CustomerName: "Paula", Email: "paula@example.com", VehicleID: &stocked.ID}).Error; err != nil {
		t.Fatalf("seed interest lead: %v", err)
	}

	if err := conn.Create(&models.Testimonial{AuthorName: "Carlos", Message: "Otimo.", Approved: true}).Error; err != nil {
		t.Fatalf("seed approved testimonial: %v", err)
	}
	if err := conn.Create(&models.Testimonial{AuthorName: "Bia", Message: "Pendente."}).Error; err != nil {
		t.Fatalf("seed pending testimonial: %v", err)
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Customers != 1 {
		t.Fatalf("expected 1 customer, got %d", summary.Customers)
	}
	if summary.VehiclesInStock != 1 {
		t.Fatalf("expected 1 stocked vehicle, got %d", summary.VehiclesInStock)
	}
	if summary.UnitsInStock != 3 {
		t.Fatalf("expected 3 units, got %d", summary.UnitsInStock)
	}
	if summary.OpenLeads != 2 {
		t.Fatalf("expected 2 open leads, got %d", summary.OpenLeads)
	}
	if summary.SalesRecorded != 1 {
		t.Fatalf("expected 1 sale, got %d", summary.SalesRecorded)
	}
	if summary.PublishedReviews != 1 {
		t.Fatalf("expected 1 published review, got %d", summary.PublishedReviews)
	}
}
