package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff() BackoffConfig {
	return BackoffConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestOpenMeteoQueryTemperature(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"latitude":   q.Get("latitude"),
			"longitude":  q.Get("longitude"),
			"start_date": q.Get("start_date"),
			"end_date":   q.Get("end_date"),
			"hourly":     q.Get("hourly"),
			"timezone":   q.Get("timezone"),
		}
		fmt.Fprint(w, `{
            "hourly": {
                "time": ["2025-07-01T06:00", "2025-07-01T07:00", "2025-07-01T08:00"],
                "temperature_2m": [21.4, null, 23.1]
            }
        }`)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL, "Europe/Paris")
	got, err := p.QueryTemperature(context.Background(), 48.8566, 2.3522,
		time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "48.8566", gotQuery["latitude"])
	assert.Equal(t, "2.3522", gotQuery["longitude"])
	assert.Equal(t, "2025-07-01", gotQuery["start_date"])
	assert.Equal(t, "2025-07-01", gotQuery["end_date"])
	assert.Equal(t, "temperature_2m", gotQuery["hourly"])
	assert.Equal(t, "Europe/Paris", gotQuery["timezone"])

	// Wall-clock stamps with no offset: the series must say so.
	assert.True(t, got.Naive)
	require.Len(t, got.Samples, 3)
	assert.Equal(t, 21.4, got.Samples[0].Value)
	assert.True(t, got.Samples[1].IsMissing())
	assert.Equal(t, 23.1, got.Samples[2].Value)
	assert.Equal(t, 7, got.Samples[1].Time.Hour())
}

func TestOpenMeteoSkipsMalformedTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
            "hourly": {
                "time": ["garbage", "2025-07-01T07:00"],
                "temperature_2m": [1.0, 2.0]
            }
        }`)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL, "")
	got, err := p.QueryTemperature(context.Background(), 1, 1,
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, got.Samples, 1)
	assert.Equal(t, 2.0, got.Samples[0].Value)
}

func TestOpenMeteoRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"hourly": {"time": ["2025-07-01T06:00"], "temperature_2m": [20.0]}}`)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL, "")
	p.backoff = fastBackoff()

	got, err := p.QueryTemperature(context.Background(), 1, 1,
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	require.Len(t, got.Samples, 1)
	assert.Equal(t, 20.0, got.Samples[0].Value)
}

func TestOpenMeteoFailsFastOnClientError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "no such coordinates", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL, "")
	p.backoff = fastBackoff()

	_, err := p.QueryTemperature(context.Background(), 1, 1,
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpected)
	assert.Equal(t, 1, calls)
}

func TestOpenMeteoGivesUpAfterRetryBudget(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL, "")
	p.backoff = BackoffConfig{MaxRetries: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

	_, err := p.QueryTemperature(context.Background(), 1, 1,
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, 2, calls)
}
