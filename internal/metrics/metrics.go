package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DrawingDuration tracks how long one full drawing invocation takes
	DrawingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "drawing_run_duration_seconds",
			Help: "Duration of drawing invocations in seconds",
			Buckets: []float64{
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
				10.0,  // 10s
			},
		},
		[]string{"status"}, // success or failure
	)

	// DrawingOutcomes counts per-company drawing outcomes
	DrawingOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drawing_company_outcomes_total",
			Help: "Per-company drawing outcomes by status",
		},
		[]string{"status"}, // scheduled, drawn or failed
	)

	// IssueCouponDuration tracks the latency of coupon issuance
	IssueCouponDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "coupon_issue_duration_seconds",
			Help: "Duration of coupon issuance requests in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
			},
		},
		[]string{"status"}, // success or failure
	)

	// NotificationFailures counts swallowed winner-notification errors
	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "winner_notification_failures_total",
			Help: "Winner notifications that could not be delivered",
		},
	)
)

// RecordDrawingDuration records the duration of a drawing invocation
func RecordDrawingDuration(status string, duration float64) {
	DrawingDuration.WithLabelValues(status).Observe(duration)
}

// RecordIssueCouponDuration records the duration of a coupon issuance request
func RecordIssueCouponDuration(status string, duration float64) {
	IssueCouponDuration.WithLabelValues(status).Observe(duration)
}
