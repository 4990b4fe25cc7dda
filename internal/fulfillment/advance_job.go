package fulfillment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
)

// orderAdvancer is the slice of the order service the job needs.
type orderAdvancer interface {
	Orders() []types.Order
	AdvanceStatus(ctx context.Context, orderID uuid.UUID) (types.Order, error)
}

// AdvanceJobParams configure the order advancement job.
type AdvanceJobParams struct {
	Logger *logger.Logger
	Orders orderAdvancer
}

// NewAdvanceJob builds the job that steps every in-flight order one status
// further along the pipeline.
func NewAdvanceJob(params AdvanceJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	return &advanceJob{logg: params.Logger, orders: params.Orders}, nil
}

type advanceJob struct {
	logg   *logger.Logger
	orders orderAdvancer
}

func (j *advanceJob) Name() string { return "order-advance" }

func (j *advanceJob) Run(ctx context.Context) error {
	var errs []error
	advanced := 0
	for _, order := range j.orders.Orders() {
		if order.Status.IsTerminal() {
			continue
		}
		updated, err := j.orders.AdvanceStatus(ctx, order.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("advance order %s: %w", order.ID, err))
			continue
		}
		logCtx := j.logg.WithOrderID(ctx, updated.ID.String())
		logCtx = j.logg.WithField(logCtx, "status", updated.Status.String())
		j.logg.Info(logCtx, "order advanced")
		advanced++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": advanced})
	j.logg.Info(logCtx, "order advance loop complete")
	return multierr.Combine(errs...)
}
