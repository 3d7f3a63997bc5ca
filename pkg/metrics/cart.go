package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records policy outcomes for cart reconciliation and mutation.
type CartMetrics struct {
	reconcileDuration *prometheus.HistogramVec
	lineAdjustments   *prometheus.CounterVec
	addOutcomes       *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	reconcileDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_reconcile_duration_seconds",
		Help:    "Duration of cart reconciliation passes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	lineAdjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_line_adjustments_total",
		Help: "Cart lines adjusted during reconciliation, by reason.",
	}, []string{"reason"})
	addOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_add_outcomes_total",
		Help: "Add-to-cart results, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(reconcileDuration, lineAdjustments, addOutcomes)
	return &CartMetrics{
		reconcileDuration: reconcileDuration,
		lineAdjustments:   lineAdjustments,
		addOutcomes:       addOutcomes,
	}
}

// ObserveReconcile records the duration of one reconciliation pass.
func (c *CartMetrics) ObserveReconcile(outcome string, duration time.Duration) {
	if c == nil || c.reconcileDuration == nil {
		return
	}
	c.reconcileDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncLineAdjustment counts one reconciled line, labelled by reason.
func (c *CartMetrics) IncLineAdjustment(reason string) {
	if c == nil || c.lineAdjustments == nil {
		return
	}
	c.lineAdjustments.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncAddOutcome counts one add-to-cart call, labelled by outcome.
func (c *CartMetrics) IncAddOutcome(outcome string) {
	if c == nil || c.addOutcomes == nil {
		return
	}
	c.addOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
