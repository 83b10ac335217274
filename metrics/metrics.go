package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueueEnters = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "waiting",
			Name:      "enters_total",
			Help:      "The total number of waiting queue enter requests",
		},
	)

	QueueAdmissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "waiting",
			Name:      "admissions_total",
			Help:      "The total number of waiting queue admissions",
		},
	)

	SignalsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waiting",
			Name:      "signals_dispatched_total",
			Help:      "The total number of best-effort leave signals dispatched",
		},
		[]string{"signal"},
	)

	SignalDeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waiting",
			Name:      "signal_delivery_failures_total",
			Help:      "The total number of leave signal deliveries that failed (swallowed)",
		},
		[]string{"signal"},
	)

	PaymentAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payment",
			Name:      "attempts_total",
			Help:      "The total number of payment attempts by terminal outcome",
		},
		[]string{"outcome"},
	)

	PaymentConfirmAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payment",
			Name:      "confirm_attempts_total",
			Help:      "The total number of completion confirmation calls",
		},
	)

	// MessagesProcessed The total number of processed messages (counter)
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingFailed total number of message processing failures (counter)
	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingDuration The total time spent processing messages (summary with quantiles 0.5, 0.9, and 0.99)
	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler"},
	)
)
