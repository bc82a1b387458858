package rte

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tlemoine/gridfeed/internal/timeseries"
)

// apiValue is one slot inside an RTE values block. Numeric fields arrive as
// numbers or as quoted strings depending on the product, so they stay raw
// until coercion.
type apiValue struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Value     json.RawMessage `json:"value"`
	Price     json.RawMessage `json:"price"`
}

// coerceNumber is a tolerant cast: numbers pass through, numeric strings
// parse, anything else reads as missing. An explicit null must not decode
// as zero.
func coerceNumber(raw json.RawMessage) float64 {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return math.NaN()
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

// cleanSeries sorts a block of API values, keeps the first occurrence of each
// timestamp, and grids the result onto the 15-minute UTC grid over
// [start, end] after flooring both bounds. Zero bounds mean "use the
// observed extent". The grid keeps its end slot even when the data stops one
// step short of it; the day-granular products always over-cover the window,
// so a short stop is a real gap.
func cleanSeries(values []apiValue, pick func(apiValue) json.RawMessage, start, end time.Time) (timeseries.Series, error) {
	samples := make([]timeseries.Sample, 0, len(values))
	for _, v := range values {
		t, err := time.Parse(time.RFC3339, v.StartDate)
		if err != nil {
			continue
		}
		samples = append(samples, timeseries.Sample{Time: t.UTC(), Value: coerceNumber(pick(v))})
	}
	if len(samples) == 0 {
		return timeseries.Series{Freq: timeseries.QuarterHour}, nil
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})
	uniq := samples[:0]
	for i, smp := range samples {
		if i > 0 && smp.Time.Equal(uniq[len(uniq)-1].Time) {
			continue
		}
		uniq = append(uniq, smp)
	}

	if start.IsZero() {
		start = uniq[0].Time
	}
	if end.IsZero() {
		end = uniq[len(uniq)-1].Time
	}
	start = timeseries.QuarterHour.Floor(start)
	end = timeseries.QuarterHour.Floor(end)
	if end.Before(start) {
		return timeseries.Series{Freq: timeseries.QuarterHour}, nil
	}

	return timeseries.Normalize(
		timeseries.RawSeries{Samples: uniq},
		timeseries.Inclusive(start),
		timeseries.Inclusive(end),
		timeseries.QuarterHour,
		timeseries.NormalizeOptions{IncludeEqualEnd: true},
	)
}
