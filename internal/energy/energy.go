// Package energy turns raw upstream observations into the canonical hourly
// series the rest of the system consumes: national electricity load stitched
// across the native-frequency switchover, and population-weighted
// temperature aggregated over a fixed set of locations.
package energy

import (
	"context"
	"time"

	"github.com/tlemoine/gridfeed/internal/timeseries"
)

// LoadSource supplies raw electricity load for one bidding area. Adapters
// wrap vendor APIs; the services here never see transport details.
type LoadSource interface {
	QueryLoad(ctx context.Context, area string, start, end time.Time) (timeseries.RawSeries, error)
}

// TemperatureSource supplies raw hourly temperature for one coordinate pair.
type TemperatureSource interface {
	QueryTemperature(ctx context.Context, lat, lon float64, start, end time.Time) (timeseries.RawSeries, error)
}

// SourceWeight is one aggregation location and its relative weight. Weights
// need not sum to one; the aggregator divides by the configured total, so
// locations that deliver nothing still count in the denominator.
type SourceWeight struct {
	ID     string
	Lat    float64
	Lon    float64
	Weight float64
}
