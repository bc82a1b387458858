package energy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tlemoine/gridfeed/internal/timeseries"
)

// TemperatureService aggregates per-location temperature into one weighted
// national hourly series. All locations are fetched concurrently; a single
// failing location fails the whole aggregate, because the weighted mean is
// meaningless with a location silently absent.
type TemperatureService struct {
	source    TemperatureSource
	locations []SourceWeight
	sourceTZ  *time.Location // wall-clock zone of upstream payloads, nil when already aware
}

func NewTemperatureService(source TemperatureSource, locations []SourceWeight, sourceTZ *time.Location) *TemperatureService {
	return &TemperatureService{source: source, locations: locations, sourceTZ: sourceTZ}
}

// WeightedHourly returns the weighted hourly temperature between start and
// end, rounded to two decimals. A location missing an hour contributes zero
// to that hour's sum while its weight stays in the denominator; an hour
// missing everywhere is therefore zero, not missing.
func (s *TemperatureService) WeightedHourly(ctx context.Context, start, end time.Time) (timeseries.Series, error) {
	if start.IsZero() || end.IsZero() {
		return timeseries.Series{}, &timeseries.InvariantError{Reason: "window bounds must be timezone-aware instants"}
	}
	if len(s.locations) == 0 {
		return timeseries.Series{}, errors.New("energy: no aggregation locations configured")
	}
	totalWeight := 0.0
	for _, loc := range s.locations {
		totalWeight += loc.Weight
	}
	if totalWeight == 0 {
		return timeseries.Series{}, errors.New("energy: aggregation weights sum to zero")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		perLoc   = make([]timeseries.Series, len(s.locations))
		firstErr error
	)
	for i, loc := range s.locations {
		wg.Add(1)
		go func(i int, loc SourceWeight) {
			defer wg.Done()
			series, err := s.fetchLocation(ctx, loc, start, end)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("location %s: %w", loc.ID, err)
				}
				return
			}
			perLoc[i] = series
		}(i, loc)
	}
	wg.Wait()
	if firstErr != nil {
		return timeseries.Series{}, firstErr
	}

	// Every location was normalized onto the identical grid, so the
	// recombination is positional and independent of fetch order.
	out := timeseries.Series{Freq: timeseries.Hour, Samples: make([]timeseries.Sample, perLoc[0].Len())}
	for j, smp := range perLoc[0].Samples {
		out.Samples[j] = timeseries.Sample{Time: smp.Time, Value: 0}
	}
	for i, loc := range s.locations {
		for j, smp := range perLoc[i].Samples {
			if smp.IsMissing() {
				continue
			}
			out.Samples[j].Value += smp.Value * loc.Weight
		}
	}
	for j := range out.Samples {
		out.Samples[j].Value /= totalWeight
	}
	return out.Round(2), nil
}

// fetchLocation grids one location onto the shared hourly window grid:
// floor(start) through the last full hour before end, both inclusive.
func (s *TemperatureService) fetchLocation(ctx context.Context, loc SourceWeight, start, end time.Time) (timeseries.Series, error) {
	raw, err := s.source.QueryTemperature(ctx, loc.Lat, loc.Lon, start, end)
	if err != nil {
		return timeseries.Series{}, err
	}

	// Day-granular upstreams over-deliver one boundary sample; drop it when
	// the response stops exactly on the floored end.
	if n := len(raw.Samples); n > 0 {
		last := raw.Samples[n-1].Time
		if raw.Naive && s.sourceTZ != nil {
			last = time.Date(last.Year(), last.Month(), last.Day(),
				last.Hour(), last.Minute(), last.Second(), last.Nanosecond(), s.sourceTZ)
		}
		if last.UTC().Equal(timeseries.Hour.Floor(end)) {
			raw.Samples = raw.Samples[:n-1]
		}
	}

	floorStart := timeseries.Hour.Floor(start)
	endEdge := timeseries.Hour.Ceil(end).Add(-time.Hour)
	return timeseries.Normalize(raw,
		timeseries.Inclusive(floorStart),
		timeseries.Inclusive(endEdge),
		timeseries.Hour,
		timeseries.NormalizeOptions{SourceTZ: s.sourceTZ, IncludeEqualEnd: true},
	)
}
