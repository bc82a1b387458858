package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Paris in winter. Fixed offset keeps the tests independent of the host's
// timezone database.
var paris = time.FixedZone("CET", 3600)

func hourlySamples(start time.Time, values ...float64) []Sample {
	out := make([]Sample, len(values))
	for i, v := range values {
		out[i] = Sample{Time: start.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return out
}

func sampleTimes(s Series) []time.Time {
	out := make([]time.Time, s.Len())
	for i, smp := range s.Samples {
		out[i] = smp.Time
	}
	return out
}

func TestNormalizeAlignsWindowOntoUTCGrid(t *testing.T) {
	raw := RawSeries{Samples: hourlySamples(time.Date(2025, 11, 4, 10, 0, 0, 0, paris), 1, 2, 3)}

	got, err := Normalize(raw,
		Inclusive(time.Date(2025, 11, 4, 10, 30, 0, 0, paris)),
		Exclusive(time.Date(2025, 11, 4, 12, 10, 0, 0, paris)),
		Hour, NormalizeOptions{})
	require.NoError(t, err)

	require.Equal(t, 3, got.Len())
	assert.Equal(t, []time.Time{
		time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 4, 11, 0, 0, 0, time.UTC),
	}, sampleTimes(got))
	for i, want := range []float64{1, 2, 3} {
		assert.Equal(t, want, got.Samples[i].Value)
	}
	assert.Zero(t, got.MissingCount())
}

func TestNormalizeAnchorsNaiveInputInSourceZone(t *testing.T) {
	naive := RawSeries{
		Samples: hourlySamples(time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC), 1, 2, 3),
		Naive:   true,
	}

	got, err := Normalize(naive,
		Inclusive(time.Date(2025, 11, 4, 10, 0, 0, 0, paris)),
		Exclusive(time.Date(2025, 11, 4, 12, 0, 0, 0, paris)),
		Hour, NormalizeOptions{SourceTZ: paris})
	require.NoError(t, err)

	// 10:00 wall clock in Paris is 09:00 UTC.
	require.Equal(t, 3, got.Len())
	assert.Equal(t, time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC), got.Samples[0].Time)
	assert.Zero(t, got.MissingCount())
}

func TestNormalizeRejectsNaiveInputWithoutSourceZone(t *testing.T) {
	naive := RawSeries{
		Samples: hourlySamples(time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC), 1),
		Naive:   true,
	}

	_, err := Normalize(naive,
		Inclusive(time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)),
		Exclusive(time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC)),
		Hour, NormalizeOptions{})

	var invErr *InvariantError
	require.ErrorAs(t, err, &invErr)
}

func TestNormalizeRejectsZeroBounds(t *testing.T) {
	raw := RawSeries{Samples: hourlySamples(time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC), 1)}

	for _, tc := range []struct {
		name       string
		start, end Bound
	}{
		{"zero start", Bound{}, Exclusive(time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC))},
		{"zero end", Inclusive(time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)), Bound{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(raw, tc.start, tc.end, Hour, NormalizeOptions{})
			var invErr *InvariantError
			require.ErrorAs(t, err, &invErr)
		})
	}
}

func TestNormalizeRejectsInvertedWindow(t *testing.T) {
	raw := RawSeries{Samples: hourlySamples(time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC), 1)}

	_, err := Normalize(raw,
		Inclusive(time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC)),
		Exclusive(time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)),
		Hour, NormalizeOptions{})

	var gridErr *GridConstructionError
	require.ErrorAs(t, err, &gridErr)
}

func TestNormalizeMarksGapsAsMissing(t *testing.T) {
	base := time.Date(2025, 11, 4, 10, 0, 0, 0, paris)
	raw := RawSeries{Samples: []Sample{
		{Time: base, Value: 1},
		{Time: base.Add(2 * time.Hour), Value: 3},
	}}

	got, err := Normalize(raw,
		Inclusive(time.Date(2025, 11, 4, 10, 30, 0, 0, paris)),
		Exclusive(time.Date(2025, 11, 4, 12, 12, 0, 0, paris)),
		Hour, NormalizeOptions{})
	require.NoError(t, err)

	require.Equal(t, 3, got.Len())
	assert.Equal(t, 1, got.MissingCount())
	assert.True(t, got.Samples[1].IsMissing())
	assert.Equal(t, 1.0, got.Samples[0].Value)
	assert.Equal(t, 3.0, got.Samples[2].Value)
}

func TestNormalizeTrimsSlotTouchingExclusiveEnd(t *testing.T) {
	raw := RawSeries{Samples: hourlySamples(time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC), 1, 2)}
	end := time.Date(2025, 11, 4, 11, 0, 0, 0, time.UTC)

	got, err := Normalize(raw,
		Inclusive(time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC)),
		Exclusive(end), Hour, NormalizeOptions{})
	require.NoError(t, err)

	// The last observation plus one step lands exactly on the end bound, so
	// the grid must not grow a trailing all-NaN slot.
	require.Equal(t, 2, got.Len())
	assert.Equal(t, time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC), got.Samples[1].Time)
	assert.Zero(t, got.MissingCount())
}

func TestNormalizeIncludeEqualEndKeepsBoundarySlot(t *testing.T) {
	raw := RawSeries{Samples: hourlySamples(time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC), 1, 2)}
	end := time.Date(2025, 11, 4, 11, 0, 0, 0, time.UTC)

	got, err := Normalize(raw,
		Inclusive(time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC)),
		Exclusive(end), Hour, NormalizeOptions{IncludeEqualEnd: true})
	require.NoError(t, err)

	require.Equal(t, 3, got.Len())
	assert.Equal(t, end, got.Samples[2].Time)
	assert.True(t, got.Samples[2].IsMissing())
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := RawSeries{Samples: hourlySamples(time.Date(2025, 11, 4, 10, 0, 0, 0, paris), 1, 2, 3)}
	start := Inclusive(time.Date(2025, 11, 4, 10, 30, 0, 0, paris))
	end := Exclusive(time.Date(2025, 11, 4, 12, 10, 0, 0, paris))

	once, err := Normalize(raw, start, end, Hour, NormalizeOptions{})
	require.NoError(t, err)
	twice, err := Normalize(RawSeries{Samples: once.Samples}, start, end, Hour, NormalizeOptions{})
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestNormalizeKeepsLastDuplicate(t *testing.T) {
	at := time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)
	raw := RawSeries{Samples: []Sample{
		{Time: at, Value: 1},
		{Time: at.Add(time.Hour), Value: 5},
		{Time: at, Value: 9},
	}}

	got, err := Normalize(raw,
		Inclusive(at), Exclusive(at.Add(3*time.Hour)),
		Hour, NormalizeOptions{})
	require.NoError(t, err)

	require.GreaterOrEqual(t, got.Len(), 2)
	assert.Equal(t, 9.0, got.Samples[0].Value)
	assert.Equal(t, 5.0, got.Samples[1].Value)
}

func TestNormalizeEmptyInputYieldsAllMissingGrid(t *testing.T) {
	got, err := Normalize(RawSeries{},
		Inclusive(time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC)),
		Exclusive(time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC)),
		Hour, NormalizeOptions{})
	require.NoError(t, err)

	// Without observations there is nothing to trigger the end-edge
	// adjustment, so the aligned end slot stays on the grid.
	require.Equal(t, 4, got.Len())
	assert.Equal(t, 4, got.MissingCount())
}

func TestNormalizeDropsObservationsOutsideWindow(t *testing.T) {
	raw := RawSeries{Samples: hourlySamples(time.Date(2025, 11, 4, 6, 0, 0, 0, time.UTC), 1, 2, 3, 4, 5, 6)}

	got, err := Normalize(raw,
		Inclusive(time.Date(2025, 11, 4, 8, 0, 0, 0, time.UTC)),
		Exclusive(time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)),
		Hour, NormalizeOptions{})
	require.NoError(t, err)

	require.Equal(t, 2, got.Len())
	assert.Equal(t, 3.0, got.Samples[0].Value)
	assert.Equal(t, 4.0, got.Samples[1].Value)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC)
	raw := RawSeries{Samples: []Sample{
		{Time: base.Add(time.Hour), Value: 2},
		{Time: base, Value: 1},
	}}

	_, err := Normalize(raw,
		Inclusive(base), Exclusive(base.Add(2*time.Hour)),
		Hour, NormalizeOptions{})
	require.NoError(t, err)

	assert.Equal(t, base.Add(time.Hour), raw.Samples[0].Time)
	assert.Equal(t, 2.0, raw.Samples[0].Value)
	assert.Equal(t, base, raw.Samples[1].Time)
}

func TestNormalizeEmptyWhenStartEdgePassesEndEdge(t *testing.T) {
	// Exclusive bounds inside a single step resolve to cutStart > cutEnd.
	got, err := Normalize(RawSeries{},
		Exclusive(time.Date(2025, 11, 4, 9, 10, 0, 0, time.UTC)),
		Exclusive(time.Date(2025, 11, 4, 9, 50, 0, 0, time.UTC)),
		Hour, NormalizeOptions{})
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestNormalizeValueNaNStaysMissing(t *testing.T) {
	at := time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)
	raw := RawSeries{Samples: []Sample{{Time: at, Value: math.NaN()}}}

	got, err := Normalize(raw, Inclusive(at), Inclusive(at), Hour, NormalizeOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.True(t, got.Samples[0].IsMissing())
}
