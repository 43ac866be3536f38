package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// OrderMetrics tracks checkout and vendor status changes. A nil receiver is a
// no-op so services can run without a registry in tests.
type OrderMetrics struct {
	created     *prometheus.CounterVec
	value       prometheus.Histogram
	failures    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	irregular   *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on reg.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders persisted at checkout.",
	}, []string{"delivery_type", "payment_type"})
	value := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_total_value",
		Help:      "Order totals in the marketplace currency.",
		Buckets:   []float64{5000, 10000, 20000, 40000, 80000, 160000},
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_failures_total",
		Help:      "Checkout attempts rejected, by error code.",
	}, []string{"code"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Order status changes by source and target status.",
	}, []string{"from", "to"})
	irregular := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_irregular_transitions_total",
		Help:      "Status changes that skip, reverse or leave a terminal state.",
	}, []string{"kind"})
	reg.MustRegister(created, value, failures, transitions, irregular)
	return &OrderMetrics{
		created:     created,
		value:       value,
		failures:    failures,
		transitions: transitions,
		irregular:   irregular,
	}
}

func (m *OrderMetrics) ObserveCreated(deliveryType, paymentType string, total decimal.Decimal) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(deliveryType), normalizeLabel(paymentType)).Inc()
	m.value.Observe(total.InexactFloat64())
}

func (m *OrderMetrics) IncCheckoutFailure(code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(code)).Inc()
}

func (m *OrderMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func (m *OrderMetrics) IncIrregularTransition(kind string) {
	if m == nil || m.irregular == nil {
		return
	}
	m.irregular.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
