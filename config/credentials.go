package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credentials is the connection bundle the bootstrap dialog captures and
// the settings store persists under one JSON blob: the region, the agent
// engine resource ID, and the service account key material.
//
// The blob is stored unencrypted in the device-local store, which lives
// in the user's own data directory with 0600 permissions, same as
// gcloud's application default credentials.
type Credentials struct {
	Location           string          `json:"location"`
	ResourceID         string          `json:"resource_id"`
	ServiceAccountInfo json.RawMessage `json:"service_account_info,omitempty"`
}

// ParseCredentials decodes a stored credential blob. Callers that read the
// blob from the settings store must treat an error as "absent" and fall
// back to the bootstrap dialog, never crash.
func ParseCredentials(blob string) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal([]byte(blob), &creds); err != nil {
		return nil, fmt.Errorf("malformed credential blob: %w", err)
	}
	if creds.Location == "" || creds.ResourceID == "" {
		return nil, fmt.Errorf("credential blob missing location or resource_id")
	}
	return &creds, nil
}

// Encode serializes the bundle for the settings store.
func (c *Credentials) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode credentials: %w", err)
	}
	return string(data), nil
}

// Validate checks the three mandatory bootstrap fields: a non-empty
// location, a non-empty resource ID, and a parseable JSON key payload.
func (c *Credentials) Validate() error {
	if c.Location == "" {
		return fmt.Errorf("location is required")
	}
	if c.ResourceID == "" {
		return fmt.Errorf("resource ID is required")
	}
	if len(c.ServiceAccountInfo) == 0 {
		return fmt.Errorf("service account key is required")
	}
	var payload map[string]any
	if err := json.Unmarshal(c.ServiceAccountInfo, &payload); err != nil {
		return fmt.Errorf("service account key is not valid JSON: %w", err)
	}
	return nil
}

// LoadServiceAccountKey reads a service account key file from disk.
func LoadServiceAccountKey(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("key file is not valid JSON: %w", err)
	}
	return data, nil
}
