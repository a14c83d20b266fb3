package cron

import (
	"context"
	"fmt"

	"github.com/veloxmotors/dealership-backend/internal/stock"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

// StockRevalidateJobName labels the sweep in logs and metrics.
const StockRevalidateJobName = "stock-revalidate"

// stockRevalidator is the slice of the stock service the job depends on.
type stockRevalidator interface {
	Revalidate(ctx context.Context) (*stock.RevalidateResult, error)
}

type stockRevalidateJob struct {
	logg  *logger.Logger
	stock stockRevalidator
}

// NewStockRevalidateJob constructs the nightly stock repair sweep.
func NewStockRevalidateJob(logg *logger.Logger, stockSvc stockRevalidator) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if stockSvc == nil {
		return nil, fmt.Errorf("stock service required")
	}
	return &stockRevalidateJob{logg: logg, stock: stockSvc}, nil
}

func (j *stockRevalidateJob) Name() string {
	return StockRevalidateJobName
}

func (j *stockRevalidateJob) Run(ctx context.Context) error {
	result, err := j.stock.Revalidate(ctx)
	if err != nil {
		return fmt.Errorf("revalidate stock: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"added":   result.Added,
		"updated": result.Updated,
		"total":   result.Total,
	}), "stock revalidation sweep finished")
	return nil
}
