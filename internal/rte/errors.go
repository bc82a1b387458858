package rte

import "fmt"

// AuthError means the token endpoint refused the credentials, returned an
// unusable body, or could not be reached at all.
type AuthError struct {
	Status int    // upstream HTTP status, zero on transport failure
	Body   string // raw response body, kept for diagnostics
	Err    error  // transport or decode cause, when there is one
}

func (e *AuthError) Error() string {
	if e.Err != nil && e.Status == 0 {
		return fmt.Sprintf("rte: token fetch failed: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("rte: token endpoint returned %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("rte: token endpoint returned %d: %s", e.Status, clip(e.Body))
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TransportError is a network-level failure on a data call. Transport
// failures are never retried; only authorization rejections are.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rte: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamStatusError is a data response the caller cannot use: a non-2xx
// status that survived the one-shot token refresh, or a 2xx payload that
// violates the API's own contract.
type UpstreamStatusError struct {
	Status int
	Body   string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("rte: upstream returned %d: %s", e.Status, clip(e.Body))
}

// clip keeps error strings readable when upstream bodies are huge.
func clip(s string) string {
	const max = 512
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
