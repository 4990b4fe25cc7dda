package enums

import "testing"

func TestOrderStatusProgress(t *testing.T) {
	cases := []struct {
		status OrderStatus
		want   int
	}{
		{OrderStatusPending, 0},
		{OrderStatusProcessing, 25},
		{OrderStatusShipped, 50},
		{OrderStatusOutForDelivery, 75},
		{OrderStatusDelivered, 100},
		{OrderStatus("lost-in-the-mail"), 0},
	}
	for _, tc := range cases {
		if got := tc.status.Progress(); got != tc.want {
			t.Fatalf("%s: expected progress %d, got %d", tc.status, tc.want, got)
		}
	}
}

func TestOrderStatusNext(t *testing.T) {
	next, ok := OrderStatusPending.Next()
	if !ok || next != OrderStatusProcessing {
		t.Fatalf("expected pending -> processing, got %q ok=%v", next, ok)
	}

	if _, ok := OrderStatusDelivered.Next(); ok {
		t.Fatal("delivered must have no successor")
	}
	if _, ok := OrderStatus("unknown").Next(); ok {
		t.Fatal("unknown status must have no successor")
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("out-for-delivery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != OrderStatusOutForDelivery {
		t.Fatalf("unexpected status %q", status)
	}
	if _, err := ParseOrderStatus("returned"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if OrderStatusPending.IsTerminal() {
		t.Fatal("pending is not terminal")
	}
	if !OrderStatusDelivered.IsTerminal() {
		t.Fatal("delivered is terminal")
	}
}
