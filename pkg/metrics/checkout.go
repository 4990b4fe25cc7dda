package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts cart and order activity plus snapshot write failures.
type CheckoutMetrics struct {
	cartOps             *prometheus.CounterVec
	ordersPlaced        prometheus.Counter
	orderFailures       *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders created successfully.",
	})
	orderFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_failures_total",
		Help: "Order creation failures by error code.",
	}, []string{"code"})
	persistenceFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_write_failures_total",
		Help: "Snapshot writes that failed, by slot.",
	}, []string{"kind"})
	reg.MustRegister(cartOps, ordersPlaced, orderFailures, persistenceFailures)
	return &CheckoutMetrics{
		cartOps:             cartOps,
		ordersPlaced:        ordersPlaced,
		orderFailures:       orderFailures,
		persistenceFailures: persistenceFailures,
	}
}

// IncCartOp increments the counter for a cart mutation.
func (c *CheckoutMetrics) IncCartOp(op string) {
	if c == nil || c.cartOps == nil {
		return
	}
	c.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncOrderPlaced increments the placed-orders counter.
func (c *CheckoutMetrics) IncOrderPlaced() {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.Inc()
}

// IncOrderFailure increments the failure counter for the given error code.
func (c *CheckoutMetrics) IncOrderFailure(code string) {
	if c == nil || c.orderFailures == nil {
		return
	}
	c.orderFailures.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncPersistenceFailure increments the failed-write counter for a slot.
func (c *CheckoutMetrics) IncPersistenceFailure(kind string) {
	if c == nil || c.persistenceFailures == nil {
		return
	}
	c.persistenceFailures.WithLabelValues(normalizeLabel(kind)).Inc()
}
