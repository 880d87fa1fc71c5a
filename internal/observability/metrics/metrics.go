package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for lead dispatch.
type LeadMetrics struct {
	leadsTotal      *prometheus.CounterVec
	channelTotal    *prometheus.CounterVec
	dispatchLatency *prometheus.HistogramVec
	validationTotal *prometheus.CounterVec
}

// NewLeadMetrics registers the lead collectors on reg (default registerer when nil).
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		leadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hps",
			Subsystem: "leads",
			Name:      "dispatched_total",
			Help:      "Total lead events dispatched",
		}, []string{"interaction", "status"}),
		channelTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hps",
			Subsystem: "leads",
			Name:      "channel_total",
			Help:      "Per-channel delivery outcomes",
		}, []string{"channel", "status"}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hps",
			Subsystem: "leads",
			Name:      "dispatch_latency_seconds",
			Help:      "Latency of a full lead dispatch",
			Buckets:   prometheus.DefBuckets,
		}, []string{"interaction"}),
		validationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hps",
			Subsystem: "forms",
			Name:      "validation_failures_total",
			Help:      "Form submissions rejected by validation",
		}, []string{"form", "action"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.leadsTotal, m.channelTotal, m.dispatchLatency, m.validationTotal)
	return m
}

func (m *LeadMetrics) ObserveLead(interaction, status string) {
	if m == nil {
		return
	}
	m.leadsTotal.WithLabelValues(interaction, status).Inc()
}

func (m *LeadMetrics) ObserveChannel(channel string, ok bool) {
	if m == nil {
		return
	}
	m.channelTotal.WithLabelValues(channel, statusLabel(ok)).Inc()
}

func (m *LeadMetrics) ObserveDispatchLatency(interaction string, seconds float64) {
	if m == nil {
		return
	}
	m.dispatchLatency.WithLabelValues(interaction).Observe(seconds)
}

func (m *LeadMetrics) ObserveValidationFailure(form, action string) {
	if m == nil {
		return
	}
	m.validationTotal.WithLabelValues(form, action).Inc()
}

// RelayMetrics counts SMS relay sends.
type RelayMetrics struct {
	sendsTotal *prometheus.CounterVec
}

// NewRelayMetrics registers the relay collectors on reg (default registerer when nil).
func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		sendsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hps",
			Subsystem: "relay",
			Name:      "sms_total",
			Help:      "Total SMS relay attempts",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sendsTotal)
	return m
}

func (m *RelayMetrics) ObserveSend(ok bool) {
	if m == nil {
		return
	}
	m.sendsTotal.WithLabelValues(statusLabel(ok)).Inc()
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
