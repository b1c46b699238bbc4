package window

import "github.com/sanspareilsmyn/tracelens/internal/trace"

const (
	// Width is the fixed window width in trace time units.
	Width = 0.1

	bytesPerMB     = 1024.0 * 1024.0
	windowsPerUnit = 10.0
	// minRateSpan guards the rate computation against near-zero divisors.
	minRateSpan = 0.001
)

// Record is the output of one closed window.
type Record struct {
	// Label is the triggering sample's time minus Width.
	Label     float64
	Aggregate float64
	// Boundary is the upper boundary of the window that closed.
	Boundary float64
	// Samples is the number of samples summed into the window.
	Samples int
}

// Aggregator buckets samples into consecutive Width-wide windows in a single
// pass. A window closes when the first sample at or past its boundary
// arrives; that sample seeds the next window. Nothing is flushed at the end
// of input, so a trailing partial window is never emitted.
type Aggregator struct {
	mode Mode

	boundary    float64
	accumulator float64
	windowStart float64
	pending     int
}

// NewAggregator returns an Aggregator with its first boundary at Width.
func NewAggregator(mode Mode) *Aggregator {
	return &Aggregator{
		mode:     mode,
		boundary: Width,
	}
}

// Mode returns the aggregation mode.
func (a *Aggregator) Mode() Mode {
	return a.mode
}

// Add consumes one sample. It returns the closed window's record and true
// when s closes the current window.
func (a *Aggregator) Add(s trace.Sample) (Record, bool) {
	if s.Time < a.boundary {
		a.accumulator += float64(s.Value)
		a.pending++
		return Record{}, false
	}

	rec := Record{
		Label:     s.Time - Width,
		Aggregate: a.aggregate(s.Time),
		Boundary:  a.boundary,
		Samples:   a.pending,
	}

	// The boundary moves one step per close, even when s skipped windows.
	a.accumulator = float64(s.Value)
	a.boundary += Width
	a.windowStart = s.Time
	a.pending = 1

	return rec, true
}

func (a *Aggregator) aggregate(closeTime float64) float64 {
	switch a.mode {
	case NormalizedRate:
		span := closeTime - a.windowStart
		if span < minRateSpan {
			return 0.0
		}
		return a.accumulator / (bytesPerMB * span)
	default:
		return windowsPerUnit * a.accumulator / bytesPerMB
	}
}

// Pending returns the number of samples in the open window. These are
// dropped if the input ends now.
func (a *Aggregator) Pending() int {
	return a.pending
}

// Boundary returns the upper boundary of the open window.
func (a *Aggregator) Boundary() float64 {
	return a.boundary
}
