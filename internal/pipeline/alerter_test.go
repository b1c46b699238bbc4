package pipeline

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sanspareilsmyn/tracelens/internal/config"
	"github.com/sanspareilsmyn/tracelens/internal/window"
)

func ptr(f float64) *float64 { return &f }

func TestAlerterFlagsOutOfBoundsWindows(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	a := NewAlerter(window.NormalizedRate, config.AlertConfig{
		MinThroughput: ptr(1),
		MaxThroughput: ptr(10),
	}, zap.New(core))

	below := testutil.ToFloat64(thresholdViolations.WithLabelValues("rate", "<"))
	above := testutil.ToFloat64(thresholdViolations.WithLabelValues("rate", ">"))

	assert.Equal(t, 0, a.Observe(window.Record{Label: 0.1, Aggregate: 5, Samples: 3}))
	assert.Equal(t, 5.0, testutil.ToFloat64(windowAggregate.WithLabelValues("rate")))
	assert.Equal(t, 3.0, testutil.ToFloat64(windowSamples.WithLabelValues("rate")))

	assert.Equal(t, 1, a.Observe(window.Record{Label: 0.2, Aggregate: 0.5}))
	assert.Equal(t, 1, a.Observe(window.Record{Label: 0.3, Aggregate: 11}))

	assert.Equal(t, below+1, testutil.ToFloat64(thresholdViolations.WithLabelValues("rate", "<")))
	assert.Equal(t, above+1, testutil.ToFloat64(thresholdViolations.WithLabelValues("rate", ">")))
	assert.Equal(t, 2, logs.FilterMessage("Throughput violation").Len())
}

func TestAlerterWithoutBounds(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	a := NewAlerter(window.SimpleSum, config.AlertConfig{}, zap.New(core))

	assert.Equal(t, 0, a.Observe(window.Record{Aggregate: -1}))
	assert.Equal(t, 0, a.Observe(window.Record{Aggregate: 1e9}))
	assert.Zero(t, logs.Len())
}
