package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/tracelens/internal/trace"
)

func feed(a *Aggregator, samples ...trace.Sample) []Record {
	var out []Record
	for _, s := range samples {
		if rec, ok := a.Add(s); ok {
			out = append(out, rec)
		}
	}
	return out
}

func TestSimpleSumClosesOnFirstSamplePastBoundary(t *testing.T) {
	a := NewAggregator(SimpleSum)
	recs := feed(a,
		trace.Sample{Time: 0.05, Value: 100},
		trace.Sample{Time: 0.12, Value: 50},
	)

	require.Len(t, recs, 1)
	assert.InDelta(t, 0.02, recs[0].Label, 1e-12)
	assert.Equal(t, 10.0*100/(1024*1024), recs[0].Aggregate)
	assert.Equal(t, 0.1, recs[0].Boundary)
	assert.Equal(t, 1, recs[0].Samples)
	assert.Equal(t, "0.02; 0.0009536743164062\n", FormatRecord(recs[0]))

	// The triggering sample seeds the next window.
	assert.Equal(t, 1, a.Pending())
	assert.InDelta(t, 0.2, a.Boundary(), 1e-12)
}

func TestSampleOnBoundaryOpensNextWindow(t *testing.T) {
	a := NewAggregator(SimpleSum)
	recs := feed(a,
		trace.Sample{Time: 0.05, Value: 100},
		trace.Sample{Time: 0.1, Value: 200},
		trace.Sample{Time: 0.15, Value: 300},
		trace.Sample{Time: 0.2, Value: 1},
	)

	require.Len(t, recs, 2)
	assert.Equal(t, 10.0*100/(1024*1024), recs[0].Aggregate)
	assert.Equal(t, 10.0*500/(1024*1024), recs[1].Aggregate)
	assert.Equal(t, 2, recs[1].Samples)
	assert.Equal(t, "0.0; 0.0009536743164062\n", FormatRecord(recs[0]))
	assert.Equal(t, "0.1; 0.0047683715820312\n", FormatRecord(recs[1]))
}

func TestTrailingPartialWindowIsNotEmitted(t *testing.T) {
	a := NewAggregator(SimpleSum)
	recs := feed(a,
		trace.Sample{Time: 0.01, Value: 10},
		trace.Sample{Time: 0.02, Value: 20},
		trace.Sample{Time: 0.09, Value: 30},
	)

	assert.Empty(t, recs)
	assert.Equal(t, 3, a.Pending())
}

func TestNormalizedRateDividesBySpanSincePreviousClose(t *testing.T) {
	a := NewAggregator(NormalizedRate)
	recs := feed(a,
		trace.Sample{Time: 0.05, Value: 100},
		trace.Sample{Time: 0.1995, Value: 200},
		trace.Sample{Time: 0.1998, Value: 400},
		trace.Sample{Time: 0.25, Value: 1},
	)

	require.Len(t, recs, 2)
	assert.InDelta(t, 100/(1024*1024*0.1995), recs[0].Aggregate, 1e-15)
	assert.InDelta(t, 600/(1024*1024*(0.25-0.1995)), recs[1].Aggregate, 1e-15)
	assert.Equal(t, 2, recs[1].Samples)
}

func TestNormalizedRateGuardsNearZeroSpan(t *testing.T) {
	a := NewAggregator(NormalizedRate)
	recs := feed(a,
		trace.Sample{Time: 0.05, Value: 100},
		trace.Sample{Time: 0.1995, Value: 200},
		trace.Sample{Time: 0.2001, Value: 300},
	)

	require.Len(t, recs, 2)
	assert.Equal(t, 0.0, recs[1].Aggregate)
	assert.Equal(t, "0.1001; 0.0\n", FormatRecord(recs[1]))
}

func TestBoundaryAdvancesOneWidthPerClose(t *testing.T) {
	a := NewAggregator(SimpleSum)
	recs := feed(a,
		trace.Sample{Time: 0.05, Value: 1},
		trace.Sample{Time: 0.35, Value: 2},
		trace.Sample{Time: 0.36, Value: 4},
	)

	// 0.35 closes [0, 0.1); the boundary is then 0.2, so 0.36 closes again.
	require.Len(t, recs, 2)
	assert.Equal(t, 10.0*1/(1024*1024), recs[0].Aggregate)
	assert.Equal(t, 10.0*2/(1024*1024), recs[1].Aggregate)
	assert.InDelta(t, 0.3, a.Boundary(), 1e-12)
}

func TestRecordCountMatchesSpannedWindows(t *testing.T) {
	a := NewAggregator(SimpleSum)
	var samples []trace.Sample
	for i := 0; i < 100; i++ {
		samples = append(samples, trace.Sample{Time: 0.005 + 0.01*float64(i), Value: 1000})
	}

	recs := feed(a, samples...)

	// Windows ending at 0.1 .. 0.9 are closed; [0.9, 1.0) is still open.
	assert.Len(t, recs, 9)
	assert.Equal(t, 10, a.Pending())
	for _, rec := range recs {
		assert.Equal(t, 10, rec.Samples)
		assert.Equal(t, 10.0*10000/(1024*1024), rec.Aggregate)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"sum", SimpleSum},
		{"Simple-Sum", SimpleSum},
		{"rate", NormalizedRate},
		{" normalized-rate ", NormalizedRate},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMode("median")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, "rate", NormalizedRate.String())
}
