package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func TestOrderMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)

	m.ObserveCreated("recoger", "efectivo", decimal.RequireFromString("34000"))
	m.IncCheckoutFailure("NOT_FOUND")
	m.IncTransition("PENDING", "EN_PREPARACION")
	m.IncIrregularTransition("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "campuseats_orders_created_total", "delivery_type", "recoger"); err != nil {
		t.Fatalf("fetch created: %v", err)
	} else if got != 1 {
		t.Fatalf("expected created=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "campuseats_checkout_failures_total", "code", "NOT_FOUND"); err != nil || got != 1 {
		t.Fatalf("expected checkout failure=1, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "campuseats_order_transitions_total", "to", "EN_PREPARACION"); err != nil || got != 1 {
		t.Fatalf("expected transition=1, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "campuseats_order_irregular_transitions_total", "kind", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected empty kind normalized to unknown, got %f err=%v", got, err)
	}

	mf := findMetricFamily(mfs, "campuseats_order_total_value")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("expected campuseats_order_total_value histogram")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum != 34000 {
		t.Fatalf("expected histogram sum 34000, got %f", sum)
	}
}

func TestOrderMetricsNilSafe(t *testing.T) {
	var m *OrderMetrics
	m.ObserveCreated("domicilio", "transferencia", decimal.Zero)
	m.IncCheckoutFailure("x")
	m.IncTransition("a", "b")
	m.IncIrregularTransition("skip")

	unregistered := NewOrderMetrics(nil)
	unregistered.IncTransition("a", "b")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
