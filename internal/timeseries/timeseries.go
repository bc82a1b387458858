// Package timeseries builds canonical time series: gapless, fixed-frequency,
// UTC-indexed grids where absent readings are explicit NaN markers rather
// than holes. Everything downstream (resampling, aggregation, dataset
// assembly) assumes series in this form.
package timeseries

import (
	"encoding/json"
	"math"
	"time"
)

// Sample is one timestamped reading. A NaN value marks a slot that exists on
// the grid but carries no observation.
type Sample struct {
	Time  time.Time
	Value float64
}

// IsMissing reports whether the sample carries no observation.
func (s Sample) IsMissing() bool {
	return math.IsNaN(s.Value)
}

// RawSeries is upstream data as received: possibly unsorted, possibly
// duplicated, possibly gappy. Naive marks timestamps that are wall-clock
// readings without timezone information; normalization then requires a
// source timezone to anchor them.
type RawSeries struct {
	Samples []Sample
	Naive   bool
}

// Series is a canonical series: sorted, gapless, fixed-frequency and UTC.
// Construct one through Normalize or Downsample rather than by hand.
type Series struct {
	Freq    Frequency
	Samples []Sample
}

// Len returns the number of grid slots.
func (s Series) Len() int {
	return len(s.Samples)
}

// Empty reports whether the series has no slots at all.
func (s Series) Empty() bool {
	return len(s.Samples) == 0
}

// MissingCount returns how many slots carry no observation.
func (s Series) MissingCount() int {
	n := 0
	for _, smp := range s.Samples {
		if smp.IsMissing() {
			n++
		}
	}
	return n
}

// Round returns a copy of the series with every present value rounded to the
// given number of decimal digits. Missing slots stay missing.
func (s Series) Round(digits int) Series {
	pow := math.Pow(10, float64(digits))
	out := Series{Freq: s.Freq, Samples: make([]Sample, len(s.Samples))}
	copy(out.Samples, s.Samples)
	for i, smp := range out.Samples {
		if smp.IsMissing() {
			continue
		}
		out.Samples[i].Value = math.Round(smp.Value*pow) / pow
	}
	return out
}

type pointJSON struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

type seriesJSON struct {
	Frequency string      `json:"frequency"`
	Points    []pointJSON `json:"points"`
}

// MarshalJSON renders missing slots as null so the gap structure survives
// serialization. NaN itself is not representable in JSON.
func (s Series) MarshalJSON() ([]byte, error) {
	doc := seriesJSON{
		Frequency: s.Freq.String(),
		Points:    make([]pointJSON, len(s.Samples)),
	}
	for i, smp := range s.Samples {
		doc.Points[i] = pointJSON{Time: smp.Time}
		if !smp.IsMissing() {
			v := smp.Value
			doc.Points[i].Value = &v
		}
	}
	return json.Marshal(doc)
}
