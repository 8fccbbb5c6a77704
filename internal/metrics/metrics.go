package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Auth metrics

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todoapi",
		Name:      "logins_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	RegistrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todoapi",
		Name:      "registrations_total",
		Help:      "Total registration attempts, by outcome.",
	}, []string{"outcome"})

	TokenRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todoapi",
		Name:      "token_refreshes_total",
		Help:      "Total refresh-token exchanges, by outcome.",
	}, []string{"outcome"})

	// Reminder metrics

	RemindersSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todoapi",
		Name:      "reminders_sent_total",
		Help:      "Total due-date reminder emails, by outcome.",
	}, []string{"outcome"})

	ReminderCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "todoapi",
		Name:      "reminder_cycle_duration_seconds",
		Help:      "Time taken for one reminder sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "todoapi",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todoapi",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		LoginsTotal,
		RegistrationsTotal,
		TokenRefreshesTotal,
		RemindersSentTotal,
		ReminderCycleDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}
