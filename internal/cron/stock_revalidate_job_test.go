package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/veloxmotors/dealership-backend/internal/stock"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

type fakeRevalidator struct {
	result *stock.RevalidateResult
	err    error
	calls  int
}

func (f *fakeRevalidator) Revalidate(context.Context) (*stock.RevalidateResult, error) {
	f.calls++
	return f.result, f.err
}

func TestStockRevalidateJobRunsSweep(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	revalidator := &fakeRevalidator{result: &stock.RevalidateResult{Added: 2, Updated: 1, Total: 10}}

	job, err := NewStockRevalidateJob(logg, revalidator)
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != StockRevalidateJobName {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if revalidator.calls != 1 {
		t.Fatalf("expected one sweep, got %d", revalidator.calls)
	}
}

func TestStockRevalidateJobPropagatesError(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	revalidator := &fakeRevalidator{err: errors.New("db offline")}

	job, err := NewStockRevalidateJob(logg, revalidator)
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestStockRevalidateJobRequiresDeps(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	if _, err := NewStockRevalidateJob(nil, &fakeRevalidator{}); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := NewStockRevalidateJob(logg, nil); err == nil {
		t.Fatal("expected error without stock service")
	}
}
