package timeseries

import (
	"math"
	"sort"
	"time"
)

// Bound is one edge of a requested window. Inclusive start bounds floor to
// the grid, exclusive ones ceil; end bounds mirror that.
type Bound struct {
	Time      time.Time
	Inclusive bool
}

// Inclusive builds a closed bound.
func Inclusive(t time.Time) Bound {
	return Bound{Time: t, Inclusive: true}
}

// Exclusive builds an open bound.
func Exclusive(t time.Time) Bound {
	return Bound{Time: t}
}

func (b Bound) startEdge(f Frequency) time.Time {
	if b.Inclusive {
		return f.Floor(b.Time)
	}
	return f.Ceil(b.Time)
}

func (b Bound) endEdge(f Frequency) time.Time {
	if b.Inclusive {
		return f.Ceil(b.Time)
	}
	return f.Floor(b.Time)
}

// NormalizeOptions tunes Normalize beyond its bound semantics.
type NormalizeOptions struct {
	// SourceTZ anchors naive input: wall-clock timestamps are reinterpreted
	// in this zone before conversion to UTC. Required when the input is
	// naive, ignored otherwise.
	SourceTZ *time.Location

	// IncludeEqualEnd disables the end-edge adjustment that drops the last
	// grid slot when the final observation sits exactly one step before the
	// end bound. Day-granular upstreams rely on that adjustment being off.
	IncludeEqualEnd bool
}

// Normalize projects raw observations onto the canonical grid spanning the
// requested window at the given frequency. The grid runs from the resolved
// start edge to the resolved end edge inclusive; slots with no observation
// carry NaN, observations outside the window are dropped, and duplicate
// timestamps resolve to the last one seen. Normalizing an already canonical
// series over the same window is the identity.
func Normalize(raw RawSeries, start, end Bound, freq Frequency, opts NormalizeOptions) (Series, error) {
	if start.Time.IsZero() || end.Time.IsZero() {
		return Series{}, &InvariantError{Reason: "window bounds must be timezone-aware instants"}
	}
	if raw.Naive && opts.SourceTZ == nil {
		return Series{}, &InvariantError{Reason: "naive timestamps need a source timezone"}
	}
	if freq <= 0 {
		return Series{}, &GridConstructionError{Reason: "frequency is not positive"}
	}
	if start.Time.After(end.Time) {
		return Series{}, &GridConstructionError{Reason: "window start is after window end"}
	}

	samples := make([]Sample, len(raw.Samples))
	copy(samples, raw.Samples)
	for i, smp := range samples {
		t := smp.Time
		if raw.Naive {
			t = rebase(t, opts.SourceTZ)
		}
		samples[i].Time = t.UTC()
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})

	// Last write wins on duplicate timestamps; the stable sort keeps input
	// order within an equal run.
	uniq := make([]Sample, 0, len(samples))
	for i, smp := range samples {
		if i+1 < len(samples) && samples[i+1].Time.Equal(smp.Time) {
			continue
		}
		uniq = append(uniq, smp)
	}

	cutStart := start.startEdge(freq)
	cutEnd := end.endEdge(freq)

	// Upstreams that stop exactly one step short of the end bound have
	// delivered the full window; keeping the end slot would fabricate a gap.
	if !opts.IncludeEqualEnd && len(uniq) > 0 {
		if uniq[len(uniq)-1].Time.Add(freq.Duration()).Equal(end.Time.UTC()) {
			cutEnd = cutEnd.Add(-freq.Duration())
		}
	}

	byTime := make(map[int64]float64, len(uniq))
	for _, smp := range uniq {
		byTime[smp.Time.UnixNano()] = smp.Value
	}

	var grid []Sample
	for t := cutStart; !t.After(cutEnd); t = t.Add(freq.Duration()) {
		v, ok := byTime[t.UnixNano()]
		if !ok {
			v = math.NaN()
		}
		grid = append(grid, Sample{Time: t, Value: v})
	}
	return Series{Freq: freq, Samples: grid}, nil
}

// rebase reinterprets the wall-clock fields of t in loc.
func rebase(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
