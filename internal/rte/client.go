package rte

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// Config carries the endpoint layout and the per-product credentials for one
// Client. Paths are relative to BaseURL.
type Config struct {
	BaseURL             string
	TokenPath           string
	ConsumptionPath     string
	WholesaleMarketPath string

	Consumption     Credentials
	WholesaleMarket Credentials

	// TokenCacheDir receives one <service>_token_cache.json per product.
	// Empty disables the disk cache.
	TokenCacheDir string
}

type serviceEndpoint struct {
	url    string
	tokens *TokenManager
}

// Client issues authenticated calls against the RTE data APIs. On a 401 or
// 403 it forces one token refresh and retries the call once; a second
// rejection is handed back to the caller as-is.
type Client struct {
	httpClient *http.Client
	services   map[APIService]*serviceEndpoint
}

// NewClient wires one token manager per product, all sharing the given HTTP
// client.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/") + "/"
	tokenURL := base + strings.Trim(cfg.TokenPath, "/") + "/"

	build := func(service APIService, path string, creds Credentials) *serviceEndpoint {
		cacheFile := ""
		if cfg.TokenCacheDir != "" {
			cacheFile = filepath.Join(cfg.TokenCacheDir, fmt.Sprintf("%s_token_cache.json", service))
		}
		return &serviceEndpoint{
			url:    base + strings.Trim(path, "/"),
			tokens: NewTokenManager(httpClient, creds, tokenURL, cacheFile),
		}
	}

	return &Client{
		httpClient: httpClient,
		services: map[APIService]*serviceEndpoint{
			ServiceConsumption:     build(ServiceConsumption, cfg.ConsumptionPath, cfg.Consumption),
			ServiceWholesaleMarket: build(ServiceWholesaleMarket, cfg.WholesaleMarketPath, cfg.WholesaleMarket),
		},
	}
}

// request runs one authenticated call. At most two upstream data calls are
// made: the original, and one retry with a freshly forced token after a 401
// or 403. When the forced refresh itself fails the original response is
// returned untouched so the caller can inspect it.
func (c *Client) request(ctx context.Context, service APIService, method string, query url.Values) (*http.Response, error) {
	ep, ok := c.services[service]
	if !ok {
		return nil, fmt.Errorf("rte: service %s is not configured", service)
	}

	token, err := ep.tokens.Token(ctx, false)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, ep, method, query, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	fresh, refreshErr := ep.tokens.Token(ctx, true)
	if refreshErr != nil {
		return resp, nil
	}
	resp.Body.Close()

	return c.do(ctx, ep, method, query, fresh)
}

func (c *Client) do(ctx context.Context, ep *serviceEndpoint, method string, query url.Values, token string) (*http.Response, error) {
	u := ep.url
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("rte: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + ep.url, Err: err}
	}
	return resp, nil
}

// fetchJSON runs one request and decodes a 2xx JSON body into out. Non-2xx
// responses become UpstreamStatusError with the body preserved.
func (c *Client) fetchJSON(ctx context.Context, service APIService, query url.Values, out any) error {
	resp, err := c.request(ctx, service, http.MethodGet, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read " + service.String() + " response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamStatusError{Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("rte: decode %s response: %w", service, err)
	}
	return nil
}
