package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/tlemoine/gridfeed/internal/timeseries"
)

const defaultOpenMeteoBaseURL = "https://archive-api.open-meteo.com/v1/archive"

// OpenMeteoProvider fetches hourly 2-metre temperature from the Open-Meteo
// archive API. The API needs no key; requests are throttled by the shared
// resilience layer instead.
type OpenMeteoProvider struct {
	baseURL  string
	timezone string
	client   *http.Client
	backoff  BackoffConfig
	circuit  *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider builds the adapter. timezone names the wall clock the
// API should answer in; returned series are naive in that zone.
func NewOpenMeteoProvider(client *http.Client, baseURL, timezone string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = defaultOpenMeteoBaseURL
	}
	if timezone == "" {
		timezone = "UTC"
	}
	return &OpenMeteoProvider{
		baseURL:  baseURL,
		timezone: timezone,
		client:   client,
		backoff:  defaultBackoff(),
		circuit:  newBreaker("openmeteo"),
	}
}

type openMeteoPayload struct {
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature2M []*float64 `json:"temperature_2m"`
	} `json:"hourly"`
}

// QueryTemperature implements energy.TemperatureSource. The archive API is
// day-granular, so the request covers the calendar dates of the window and
// callers cut the result down. Timestamps come back without an offset;
// the returned series is marked naive accordingly.
func (p *OpenMeteoProvider) QueryTemperature(ctx context.Context, lat, lon float64, start, end time.Time) (timeseries.RawSeries, error) {
	buildRequest := func() (*http.Request, error) {
		query := url.Values{}
		query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		query.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
		query.Set("start_date", start.Format("2006-01-02"))
		query.Set("end_date", end.Format("2006-01-02"))
		query.Set("hourly", "temperature_2m")
		query.Set("timezone", p.timezone)
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	}

	resp, err := doWithResilience(ctx, p.client, p.circuit, p.backoff, buildRequest)
	if err != nil {
		return timeseries.RawSeries{}, fmt.Errorf("open-meteo: %w", err)
	}
	defer resp.Body.Close()

	var payload openMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return timeseries.RawSeries{}, fmt.Errorf("open-meteo: decode response: %w", err)
	}

	samples := make([]timeseries.Sample, 0, len(payload.Hourly.Time))
	for i, stamp := range payload.Hourly.Time {
		t, err := time.Parse("2006-01-02T15:04", stamp)
		if err != nil {
			continue
		}
		v := math.NaN()
		if i < len(payload.Hourly.Temperature2M) && payload.Hourly.Temperature2M[i] != nil {
			v = *payload.Hourly.Temperature2M[i]
		}
		samples = append(samples, timeseries.Sample{Time: t, Value: v})
	}
	return timeseries.RawSeries{Samples: samples, Naive: true}, nil
}
