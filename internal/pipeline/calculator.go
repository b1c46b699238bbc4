package pipeline

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/tracelens/internal/trace"
	"github.com/sanspareilsmyn/tracelens/internal/window"
)

// Summary describes a finished run.
type Summary struct {
	Mode    window.Mode
	Samples int64
	Windows int
	// Dropped counts samples in the trailing window, which is never emitted.
	Dropped int
}

// Calculator feeds samples through a window.Aggregator and writes each
// closed window to its output.
type Calculator struct {
	aggregator *window.Aggregator
	writer     *window.Writer
	logger     *zap.Logger
	samples    int64
}

// NewCalculator creates a Calculator writing records to out.
func NewCalculator(mode window.Mode, out io.Writer, logger *zap.Logger) *Calculator {
	logger.Debug("Calculator initialized",
		zap.Stringer("mode", mode),
		zap.Float64("window_width", window.Width),
	)
	return &Calculator{
		aggregator: window.NewAggregator(mode),
		writer:     window.NewWriter(out),
		logger:     logger,
	}
}

// Process consumes one sample. When the sample closes a window, the window's
// record is written and returned with true.
func (c *Calculator) Process(s trace.Sample) (window.Record, bool, error) {
	c.samples++
	samplesTotal.Inc()

	rec, closed := c.aggregator.Add(s)
	if !closed {
		return window.Record{}, false, nil
	}

	if err := c.writer.Write(rec); err != nil {
		return window.Record{}, false, fmt.Errorf("%w: %w", ErrSinkWriteFailed, err)
	}
	windowsEmitted.WithLabelValues(c.aggregator.Mode().String()).Inc()

	c.logger.Debug("Window closed",
		zap.Float64("label", rec.Label),
		zap.Float64("boundary", rec.Boundary),
		zap.Int("samples", rec.Samples),
		zap.Float64("aggregate", rec.Aggregate),
	)
	return rec, true, nil
}

// Finish flushes buffered output and reports the run. The open trailing
// window is not written.
func (c *Calculator) Finish() (Summary, error) {
	sum := Summary{
		Mode:    c.aggregator.Mode(),
		Samples: c.samples,
		Windows: c.writer.Written(),
		Dropped: c.aggregator.Pending(),
	}
	trailingDropped.Set(float64(sum.Dropped))

	if err := c.writer.Flush(); err != nil {
		return sum, fmt.Errorf("%w: %w", ErrSinkWriteFailed, err)
	}

	if sum.Dropped > 0 {
		c.logger.Info("Trailing partial window not emitted",
			zap.Int("dropped_samples", sum.Dropped),
			zap.Float64("open_window_boundary", c.aggregator.Boundary()),
		)
	}
	return sum, nil
}
