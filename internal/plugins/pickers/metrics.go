package pickers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datepicker_sessions_opened_total",
		Help: "The total number of picker sessions opened",
	})
	selectionsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datepicker_selections_total",
		Help: "The total number of committed selections",
	}, []string{"mode"})
	rangesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datepicker_rejections_total",
		Help: "The total number of fixed ranges rejected for lack of room",
	}, []string{"mode"})
	changePublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datepicker_publish_errors_total",
		Help: "The total number of change events that failed to publish",
	})
	gridBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "datepicker_grid_build_seconds",
		Help:    "Time spent building the grid of a session view",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	})
)
