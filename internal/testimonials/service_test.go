package testimonials

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veloxmotors/dealership-backend/pkg/db/models"
	pkgerrors "github.com/veloxmotors/dealership-backend/pkg/errors"
)

var testDBSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testimonials_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Testimonial{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func TestServiceSubmitStartsUnapproved(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	dto, err := svc.Submit(ctx, "Carlos Lima", "Atendimento excelente, recomendo.")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.Approved {
		t.Fatal("expected new testimonials to start unapproved")
	}

	if _, err := svc.Submit(ctx, "", "msg"); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing author, got %v", err)
	}
	if _, err := svc.Submit(ctx, "Carlos", "  "); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank message, got %v", err)
	}
}

func TestServiceApprovalFlow(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	pending, err := svc.Submit(ctx, "Carlos", "Otima experiencia.")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	public, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(public) != 0 {
		t.Fatalf("expected no approved testimonials yet, got %d", len(public))
	}

	approved, err := svc.SetApproval(ctx, pending.ID, true)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.Approved {
		t.Fatal("expected approved=true")
	}

	public, err = svc.List(ctx, true)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(public) != 1 {
		t.Fatalf("expected 1 approved testimonial, got %d", len(public))
	}

	if _, err := svc.SetApproval(ctx, uuid.New(), true); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceDeleteIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	dto, err := svc.Submit(ctx, "Carlos", "Bom demais.")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.Delete(ctx, dto.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, dto.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
