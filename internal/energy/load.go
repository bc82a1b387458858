package energy

import (
	"context"
	"fmt"
	"time"

	"github.com/tlemoine/gridfeed/internal/timeseries"
)

// LoadService produces hourly load series across the calendar instant where
// the upstream switched its native sampling from hourly to 15 minutes.
// Requests before the threshold fetch hourly data directly; requests after
// it fetch 15-minute data and average each hour; requests spanning it do
// both and stitch at the seam.
type LoadService struct {
	source    LoadSource
	area      string
	threshold time.Time
}

func NewLoadService(source LoadSource, area string, threshold time.Time) *LoadService {
	return &LoadService{source: source, area: area, threshold: threshold.UTC()}
}

// Hourly returns the hourly load between start and end. At the seam the
// post-threshold hour wins over any pre-threshold sample for the same slot,
// and a final normalization keeps interior gaps explicit.
func (s *LoadService) Hourly(ctx context.Context, start, end time.Time) (timeseries.Series, error) {
	if start.IsZero() || end.IsZero() {
		return timeseries.Series{}, &timeseries.InvariantError{Reason: "window bounds must be timezone-aware instants"}
	}

	switch {
	case !end.After(s.threshold):
		return s.hourlyNative(ctx, start, end)
	case !start.Before(s.threshold):
		return s.quarterHourly(ctx, start, end)
	default:
		before, err := s.hourlyNative(ctx, start, s.threshold)
		if err != nil {
			return timeseries.Series{}, err
		}
		after, err := s.quarterHourly(ctx, s.threshold, end)
		if err != nil {
			return timeseries.Series{}, err
		}
		merged := make([]timeseries.Sample, 0, before.Len()+after.Len())
		merged = append(merged, before.Samples...)
		merged = append(merged, after.Samples...)
		return timeseries.Normalize(
			timeseries.RawSeries{Samples: merged},
			timeseries.Exclusive(start),
			timeseries.Exclusive(end),
			timeseries.Hour,
			timeseries.NormalizeOptions{},
		)
	}
}

func (s *LoadService) hourlyNative(ctx context.Context, start, end time.Time) (timeseries.Series, error) {
	raw, err := s.source.QueryLoad(ctx, s.area, start, end)
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("query load %s: %w", s.area, err)
	}
	return timeseries.Normalize(raw,
		timeseries.Exclusive(start),
		timeseries.Exclusive(end),
		timeseries.Hour,
		timeseries.NormalizeOptions{},
	)
}

// quarterHourly fetches at the native 15-minute frequency and averages each
// hourly bucket over the values present in it.
func (s *LoadService) quarterHourly(ctx context.Context, start, end time.Time) (timeseries.Series, error) {
	raw, err := s.source.QueryLoad(ctx, s.area, start, end)
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("query load %s: %w", s.area, err)
	}
	fine, err := timeseries.Normalize(raw,
		timeseries.Exclusive(start),
		timeseries.Exclusive(end),
		timeseries.QuarterHour,
		timeseries.NormalizeOptions{},
	)
	if err != nil {
		return timeseries.Series{}, err
	}
	return timeseries.Downsample(fine, timeseries.Hour)
}
