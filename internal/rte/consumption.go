package rte

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tlemoine/gridfeed/internal/timeseries"
)

type shortTermResponse struct {
	ShortTerm []previsionBlock `json:"short_term"`
}

type previsionBlock struct {
	Type      string     `json:"type"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Values    []apiValue `json:"values"`
}

// ShortTermConsumptions fetches 15-minute consumption series for the given
// prevision types over [start, end). The upstream API only accepts whole
// calendar days, so the query widens to local midnights and the response is
// cut back to the caller's window. Types absent from the response get no map
// entry; unknown types in the response are an error.
func (c *Client) ShortTermConsumptions(ctx context.Context, types []PrevisionType, start, end time.Time) (map[PrevisionType]timeseries.Series, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &timeseries.InvariantError{Reason: "window bounds must be timezone-aware instants"}
	}
	if start.After(end) {
		return nil, &timeseries.GridConstructionError{Reason: "window start is after window end"}
	}

	query := url.Values{}
	if len(types) > 0 {
		names := make([]string, len(types))
		for i, pt := range types {
			names[i] = pt.String()
		}
		query.Set("type", strings.Join(names, ","))
	}
	query.Set("start_date", floorDay(start).Format(time.RFC3339))
	query.Set("end_date", ceilDay(end).Format(time.RFC3339))

	var payload shortTermResponse
	if err := c.fetchJSON(ctx, ServiceConsumption, query, &payload); err != nil {
		return nil, err
	}

	cutStart := timeseries.QuarterHour.Floor(start)
	cutEnd := timeseries.QuarterHour.Ceil(end).Add(-timeseries.QuarterHour.Duration())

	out := make(map[PrevisionType]timeseries.Series, len(payload.ShortTerm))
	for _, block := range payload.ShortTerm {
		pt, err := ParsePrevisionType(block.Type)
		if err != nil {
			return nil, err
		}
		if err := block.checkWholeDays(); err != nil {
			return nil, err
		}
		series, err := cleanSeries(block.Values, func(v apiValue) json.RawMessage { return v.Value }, cutStart, cutEnd)
		if err != nil {
			return nil, err
		}
		out[pt] = series
	}
	return out, nil
}

// RealisedConsumption is the single-variant convenience wrapper. An absent
// variant reads as an empty series.
func (c *Client) RealisedConsumption(ctx context.Context, start, end time.Time) (timeseries.Series, error) {
	previsions, err := c.ShortTermConsumptions(ctx, []PrevisionType{Realised}, start, end)
	if err != nil {
		return timeseries.Series{}, err
	}
	series, ok := previsions[Realised]
	if !ok {
		return timeseries.Series{Freq: timeseries.QuarterHour}, nil
	}
	return series, nil
}

// checkWholeDays guards the whole-day contract: a block whose declared
// window is not aligned to local midnight would silently shift the cut
// arithmetic, so it is rejected instead.
func (b previsionBlock) checkWholeDays() error {
	for _, ds := range []string{b.StartDate, b.EndDate} {
		if ds == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, ds)
		if err != nil {
			return &UpstreamStatusError{Status: http.StatusOK, Body: fmt.Sprintf("unparsable block boundary %q", ds)}
		}
		if h, m, s := t.Clock(); h != 0 || m != 0 || s != 0 {
			return &UpstreamStatusError{Status: http.StatusOK, Body: fmt.Sprintf("partial-day block boundary %s", ds)}
		}
	}
	return nil
}

// floorDay truncates to midnight in t's own wall clock; the upstream API
// thinks in local calendar days, not UTC ones.
func floorDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func ceilDay(t time.Time) time.Time {
	floored := floorDay(t)
	if floored.Equal(t) {
		return floored
	}
	return floored.AddDate(0, 0, 1)
}
