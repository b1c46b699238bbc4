package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	samplesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracelens_samples_total",
			Help: "Total number of trace samples consumed.",
		},
	)
	windowsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracelens_windows_emitted_total",
			Help: "Total number of closed windows written.",
		},
		[]string{"mode"},
	)
	windowAggregate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracelens_window_aggregate",
			Help: "Aggregate of the most recently closed window (MB/s).",
		},
		[]string{"mode"},
	)
	windowSamples = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracelens_window_samples",
			Help: "Number of samples summed into the most recently closed window.",
		},
		[]string{"mode"},
	)
	trailingDropped = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracelens_trailing_samples_dropped",
			Help: "Samples left in the unclosed trailing window at the end of the last run.",
		},
	)
	thresholdViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracelens_threshold_violations_total",
			Help: "Total number of windows whose aggregate fell outside the configured throughput bounds.",
		},
		[]string{"mode", "comparison"}, // comparison: "<" (below min) or ">" (above max)
	)
)
