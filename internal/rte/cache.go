package rte

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// tokenRecord is the one JSON record persisted per credential pair.
type tokenRecord struct {
	AccessToken string  `json:"access_token"`
	Expiry      float64 `json:"expiry"` // unix seconds
}

// tokenCache persists a single token record to disk so restarts can reuse a
// still-valid token. A missing, unreadable or malformed file reads as a cold
// start, never as an error.
type tokenCache struct {
	path string
}

func (c *tokenCache) load() (tokenRecord, bool) {
	if c == nil || c.path == "" {
		return tokenRecord{}, false
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return tokenRecord{}, false
	}
	var rec tokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return tokenRecord{}, false
	}
	if rec.AccessToken == "" {
		return tokenRecord{}, false
	}
	return rec, true
}

func (c *tokenCache) save(rec tokenRecord) error {
	if c == nil || c.path == "" {
		return nil
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}
