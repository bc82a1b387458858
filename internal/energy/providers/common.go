// Package providers contains the outbound HTTP adapters behind the energy
// capability interfaces, sharing one retry, backoff and circuit-breaker
// layer.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls exponential retry behaviour for provider calls.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func defaultBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errNoHTTPClient = errors.New("http client not configured")
)

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doWithResilience executes buildRequest through the circuit breaker with
// exponential backoff. 429 and 5xx responses are retryable; anything else
// non-2xx fails immediately.
func doWithResilience(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, backoff BackoffConfig, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	interval := backoff.InitialInterval
	var lastErr error

	for attempt := 0; attempt <= backoff.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			interval *= 2
			if interval > backoff.MaxInterval {
				interval = backoff.MaxInterval
			}
		}

		result, err := cb.Execute(func() (interface{}, error) {
			req, err := buildRequest()
			if err != nil {
				return nil, err
			}
			resp, err := client.Do(req.WithContext(ctx))
			if err != nil {
				return nil, err
			}
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				drain(resp)
				return nil, fmt.Errorf("%w: %d", errRateLimited, resp.StatusCode)
			case resp.StatusCode >= 500:
				drain(resp)
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				drain(resp)
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("circuit breaker open: %w", err)
		}
		if errors.Is(err, errUnexpected) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", backoff.MaxRetries+1, lastErr)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
