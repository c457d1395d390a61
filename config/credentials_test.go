package config

import (
	"encoding/json"
	"testing"
)

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		name    string
		blob    string
		wantErr bool
	}{
		{
			name: "complete bundle",
			blob: `{"location":"us-central1","resource_id":"projects/p/locations/us-central1/reasoningEngines/1","service_account_info":{"type":"service_account"}}`,
		},
		{
			name:    "not json",
			blob:    `{{{`,
			wantErr: true,
		},
		{
			name:    "missing location",
			blob:    `{"resource_id":"projects/p/locations/l/reasoningEngines/1"}`,
			wantErr: true,
		},
		{
			name:    "missing resource id",
			blob:    `{"location":"us-central1"}`,
			wantErr: true,
		},
		{
			name:    "empty blob",
			blob:    ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := ParseCredentials(tt.blob)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if creds.Location == "" || creds.ResourceID == "" {
				t.Errorf("incomplete credentials: %+v", creds)
			}
		})
	}
}

func TestCredentialsEncodeRoundTrip(t *testing.T) {
	creds := &Credentials{
		Location:           "europe-west1",
		ResourceID:         "projects/p/locations/europe-west1/reasoningEngines/7",
		ServiceAccountInfo: json.RawMessage(`{"type":"service_account"}`),
	}

	blob, err := creds.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := ParseCredentials(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Location != creds.Location || decoded.ResourceID != creds.ResourceID {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestCredentialsValidate(t *testing.T) {
	valid := Credentials{
		Location:           "us-central1",
		ResourceID:         "projects/p/locations/us-central1/reasoningEngines/1",
		ServiceAccountInfo: json.RawMessage(`{"type":"service_account"}`),
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("valid bundle rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Credentials)
	}{
		{"empty location", func(c *Credentials) { c.Location = "" }},
		{"empty resource id", func(c *Credentials) { c.ResourceID = "" }},
		{"missing key", func(c *Credentials) { c.ServiceAccountInfo = nil }},
		{"unparseable key", func(c *Credentials) { c.ServiceAccountInfo = json.RawMessage(`nope{`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
