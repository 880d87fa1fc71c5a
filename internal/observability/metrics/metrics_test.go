package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterSum totals every series of the named counter family.
func counterSum(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var sum float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}

func TestLeadMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)
	m.ObserveLead("form_submit", "sent")
	m.ObserveLead("form_submit", "sent")
	m.ObserveChannel("email", false)
	m.ObserveDispatchLatency("form_submit", 0.2)
	m.ObserveValidationFailure("query", "submit")

	if got := counterSum(t, reg, "hps_leads_dispatched_total"); got != 2 {
		t.Fatalf("expected 2 dispatched leads, got %v", got)
	}
	if got := counterSum(t, reg, "hps_leads_channel_total"); got != 1 {
		t.Fatalf("expected 1 channel outcome, got %v", got)
	}
}

func TestRelayMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRelayMetrics(reg)
	m.ObserveSend(true)
	m.ObserveSend(false)

	if got := counterSum(t, reg, "hps_relay_sms_total"); got != 2 {
		t.Fatalf("expected 2 relay sends, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var lm *LeadMetrics
	lm.ObserveLead("form_submit", "sent")
	lm.ObserveChannel("email", true)
	lm.ObserveDispatchLatency("form_submit", 0.1)
	lm.ObserveValidationFailure("query", "submit")

	var rm *RelayMetrics
	rm.ObserveSend(true)
}
