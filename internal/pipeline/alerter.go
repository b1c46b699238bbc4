package pipeline

import (
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/tracelens/internal/config"
	"github.com/sanspareilsmyn/tracelens/internal/window"
)

// Alerter publishes each closed window to Prometheus and checks its
// aggregate against the configured throughput bounds.
type Alerter struct {
	mode   string
	bounds config.AlertConfig
	logger *zap.Logger
}

// NewAlerter creates a new Alerter for windows aggregated in mode.
func NewAlerter(mode window.Mode, bounds config.AlertConfig, logger *zap.Logger) *Alerter {
	logger.Debug("Alerter initialized",
		zap.Stringer("mode", mode),
		zap.Bool("min_check", bounds.MinThroughput != nil),
		zap.Bool("max_check", bounds.MaxThroughput != nil),
	)
	return &Alerter{
		mode:   mode.String(),
		bounds: bounds,
		logger: logger,
	}
}

// Observe records rec and reports how many bounds it violated.
func (a *Alerter) Observe(rec window.Record) int {
	windowAggregate.WithLabelValues(a.mode).Set(rec.Aggregate)
	windowSamples.WithLabelValues(a.mode).Set(float64(rec.Samples))

	violations := 0
	if a.check(rec, a.bounds.MinThroughput, "<", rec.Aggregate < deref(a.bounds.MinThroughput)) {
		violations++
	}
	if a.check(rec, a.bounds.MaxThroughput, ">", rec.Aggregate > deref(a.bounds.MaxThroughput)) {
		violations++
	}
	return violations
}

func (a *Alerter) check(rec window.Record, threshold *float64, comparison string, violated bool) bool {
	if threshold == nil || !violated {
		return false
	}
	a.logger.Warn("Throughput violation",
		zap.Float64("label", rec.Label),
		zap.Float64("actual", rec.Aggregate),
		zap.Float64("threshold", *threshold),
		zap.String("comparison", comparison),
	)
	thresholdViolations.WithLabelValues(a.mode, comparison).Inc()
	return true
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
