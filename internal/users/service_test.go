package users

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

	dsn := fmt.Sprintf("file:users_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func TestServiceCreateNormalizesEmail(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateUserInput{Name: "Ana Souza", Email: "  Ana.Souza@Example.COM "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Email != "ana.souza@example.com" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}

	_, err = svc.Create(ctx, CreateUserInput{Name: "Other", Email: "ana.souza@example.com"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateUserInput
	}{
		{"missing name", CreateUserInput{Email: "a@b.com"}},
		{"missing email", CreateUserInput{Name: "Ana"}},
		{"invalid email", CreateUserInput{Name: "Ana", Email: "not-an-email"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestServiceUpdateEmailConflict(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Create(ctx, CreateUserInput{Name: "Bia", Email: "bia@example.com"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	taken := "bia@example.com"
	_, err = svc.Update(ctx, first.ID, UpdateUserInput{Email: &taken})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Re-submitting your own email is fine.
	own := "ana@example.com"
	if _, err := svc.Update(ctx, first.ID, UpdateUserInput{Email: &own}); err != nil {
		t.Fatalf("update with own email: %v", err)
	}
}

func TestServiceDeleteIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, dto.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, dto.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	if _, err := svc.GetByID(ctx, dto.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	exists, err := svc.Exists(ctx, uuid.New())
	if err != nil || exists {
		t.Fatalf("expected absent customer, got %v %v", exists, err)
	}
}
