package rte

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// tokenSafetyMargin is how close to expiry a token may get before it stops
// being handed out and a refresh is forced instead.
const tokenSafetyMargin = 10 * time.Second

// defaultTokenLifetime applies when the token response omits expires_in.
const defaultTokenLifetime = 3600 * time.Second

// Credentials is one immutable client id and secret pair.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// TokenManager owns the bearer-token lifecycle for one credential pair
// against one token endpoint. The in-memory token is authoritative; the
// disk cache only warms cold starts and its failures never surface.
type TokenManager struct {
	client   *http.Client
	creds    Credentials
	tokenURL string
	cache    *tokenCache
	now      func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewTokenManager builds a manager and warms it from the cache file when one
// is given. An empty cacheFile disables persistence.
func NewTokenManager(client *http.Client, creds Credentials, tokenURL, cacheFile string) *TokenManager {
	m := &TokenManager{
		client:   client,
		creds:    creds,
		tokenURL: tokenURL,
		now:      time.Now,
	}
	if cacheFile != "" {
		m.cache = &tokenCache{path: cacheFile}
		if rec, ok := m.cache.load(); ok {
			m.accessToken = rec.AccessToken
			m.expiresAt = time.Unix(int64(rec.Expiry), 0)
		}
	}
	return m
}

// Token returns a bearer token, reusing the current one while it has more
// than the safety margin left. force discards the current token and fetches
// a fresh one regardless.
func (m *TokenManager) Token(ctx context.Context, force bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !force && m.valid() {
		return m.accessToken, nil
	}
	if err := m.fetch(ctx); err != nil {
		return "", err
	}
	return m.accessToken, nil
}

func (m *TokenManager) valid() bool {
	return m.accessToken != "" && m.now().Add(tokenSafetyMargin).Before(m.expiresAt)
}

func (m *TokenManager) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, nil)
	if err != nil {
		return &AuthError{Err: err}
	}
	req.SetBasicAuth(m.creds.ClientID, m.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &AuthError{Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return &AuthError{Status: resp.StatusCode, Body: string(body), Err: err}
	}
	if payload.AccessToken == "" {
		return &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	lifetime := time.Duration(payload.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}
	m.accessToken = payload.AccessToken
	m.expiresAt = m.now().Add(lifetime)

	// A failed cache write must not mask a successful fetch.
	if err := m.cache.save(tokenRecord{AccessToken: m.accessToken, Expiry: float64(m.expiresAt.Unix())}); err != nil {
		log.Printf("rte: token cache write failed: %v", err)
	}
	return nil
}
