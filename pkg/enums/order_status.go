package enums

import (
	"fmt"
	"math"
)

// OrderStatus tracks the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
)

// validOrderStatuses is ordered: each status transitions only to its successor.
var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	return o.index() >= 0
}

// IsTerminal reports whether the order has reached its final status.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered
}

// Next returns the successor status, or false when the status is terminal or unknown.
func (o OrderStatus) Next() (OrderStatus, bool) {
	idx := o.index()
	if idx < 0 || idx == len(validOrderStatuses)-1 {
		return "", false
	}
	return validOrderStatuses[idx+1], true
}

// Progress maps the status onto a 0-100 delivery progress percentage.
// Unknown statuses report 0.
func (o OrderStatus) Progress() int {
	idx := o.index()
	if idx < 0 {
		return 0
	}
	return int(math.Round(float64(idx) / float64(len(validOrderStatuses)-1) * 100))
}

func (o OrderStatus) index() int {
	for i, candidate := range validOrderStatuses {
		if candidate == o {
			return i
		}
	}
	return -1
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
