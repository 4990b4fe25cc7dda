package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bookhavenapp/bookhaven-backend/pkg/enums"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
)

type fakeAdvancer struct {
	orders   []types.Order
	failFor  uuid.UUID
	advanced []uuid.UUID
}

func (f *fakeAdvancer) Orders() []types.Order {
	return f.orders
}

func (f *fakeAdvancer) AdvanceStatus(_ context.Context, orderID uuid.UUID) (types.Order, error) {
	if orderID == f.failFor {
		return types.Order{}, errors.New("advance refused")
	}
	f.advanced = append(f.advanced, orderID)
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			next, _ := f.orders[i].Status.Next()
			f.orders[i].Status = next
			return f.orders[i], nil
		}
	}
	return types.Order{}, errors.New("unknown order")
}

func TestAdvanceJobSkipsDeliveredOrders(t *testing.T) {
	pending := types.Order{ID: uuid.New(), Status: enums.OrderStatusPending}
	shipped := types.Order{ID: uuid.New(), Status: enums.OrderStatusShipped}
	delivered := types.Order{ID: uuid.New(), Status: enums.OrderStatusDelivered}
	advancer := &fakeAdvancer{orders: []types.Order{pending, shipped, delivered}}

	job, err := NewAdvanceJob(AdvanceJobParams{
		Logger: logger.New(logger.Options{ServiceName: "fulfillment-test"}),
		Orders: advancer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(advancer.advanced) != 2 {
		t.Fatalf("expected 2 orders advanced, got %d", len(advancer.advanced))
	}
	for _, id := range advancer.advanced {
		if id == delivered.ID {
			t.Fatal("delivered order must not be advanced")
		}
	}
}

func TestAdvanceJobKeepsGoingPastFailures(t *testing.T) {
	failing := types.Order{ID: uuid.New(), Status: enums.OrderStatusPending}
	healthy := types.Order{ID: uuid.New(), Status: enums.OrderStatusProcessing}
	advancer := &fakeAdvancer{orders: []types.Order{failing, healthy}, failFor: failing.ID}

	job, err := NewAdvanceJob(AdvanceJobParams{
		Logger: logger.New(logger.Options{ServiceName: "fulfillment-test"}),
		Orders: advancer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	err = job.Run(context.Background())
	if err == nil {
		t.Fatal("expected the failing order to surface an error")
	}
	if len(advancer.advanced) != 1 || advancer.advanced[0] != healthy.ID {
		t.Fatalf("expected the healthy order to advance, got %v", advancer.advanced)
	}
}
