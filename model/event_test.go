package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPartUnmarshalCasings(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantText     string
		wantCall     string
		wantResponse string
	}{
		{
			name:     "plain text",
			input:    `{"text":"hello"}`,
			wantText: "hello",
		},
		{
			name:     "snake_case function call",
			input:    `{"function_call":{"name":"lookup","args":{"q":"go"}}}`,
			wantCall: "lookup",
		},
		{
			name:     "camelCase function call",
			input:    `{"functionCall":{"name":"lookup"}}`,
			wantCall: "lookup",
		},
		{
			name:         "snake_case function response",
			input:        `{"function_response":{"name":"lookup","response":{"ok":true}}}`,
			wantResponse: "lookup",
		},
		{
			name:         "camelCase function response",
			input:        `{"functionResponse":{"name":"lookup"}}`,
			wantResponse: "lookup",
		},
		{
			name:  "no known keys yields empty part",
			input: `{"unknown_field":42}`,
		},
		{
			name:  "empty object yields empty part",
			input: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var part Part
			if err := json.Unmarshal([]byte(tt.input), &part); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}

			if part.Text != tt.wantText {
				t.Errorf("text: got %q, want %q", part.Text, tt.wantText)
			}

			gotCall := ""
			if part.FunctionCall != nil {
				gotCall = part.FunctionCall.Name
			}
			if gotCall != tt.wantCall {
				t.Errorf("function call: got %q, want %q", gotCall, tt.wantCall)
			}

			gotResponse := ""
			if part.FunctionResponse != nil {
				gotResponse = part.FunctionResponse.Name
			}
			if gotResponse != tt.wantResponse {
				t.Errorf("function response: got %q, want %q", gotResponse, tt.wantResponse)
			}

			if tt.wantText == "" && tt.wantCall == "" && tt.wantResponse == "" && !part.IsEmpty() {
				t.Error("expected empty part")
			}
		})
	}
}

func TestPartMarshalSnakeCase(t *testing.T) {
	part := Part{FunctionCall: &FunctionCall{Name: "lookup"}}
	data, err := json.Marshal(part)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"function_call"`) {
		t.Errorf("expected snake_case key, got %s", data)
	}
	if strings.Contains(string(data), `"functionCall"`) {
		t.Errorf("unexpected camelCase key in %s", data)
	}
}

func TestEpochString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"string encoded", `"1700000000.25"`, 1700000000.25},
		{"bare number", `1700000000`, 1700000000},
		{"unparseable sorts as zero", `"soon"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e EpochString
			if err := json.Unmarshal([]byte(tt.input), &e); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if got := e.Seconds(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventFirstPart(t *testing.T) {
	empty := Event{}
	if !empty.FirstPart().IsEmpty() {
		t.Error("event without parts should yield an empty first part")
	}

	event := Event{Content: Content{
		Role:  "model",
		Parts: []Part{{Text: "hi"}, {Text: "there"}},
	}}
	if event.FirstPart().Text != "hi" {
		t.Errorf("got %q", event.FirstPart().Text)
	}
}

func TestSessionDecode(t *testing.T) {
	raw := `{
		"id": "abc123",
		"lastUpdateTime": "1700000000",
		"events": [
			{"content": {"role": "user", "parts": [{"text": "hello"}]}},
			{"content": {"role": "model", "parts": [{"functionCall": {"name": "search"}}]}}
		]
	}`

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if session.ID != "abc123" {
		t.Errorf("id: got %q", session.ID)
	}
	if len(session.Events) != 2 {
		t.Fatalf("got %d events", len(session.Events))
	}
	if session.Events[1].FirstPart().FunctionCall == nil {
		t.Error("camelCase functionCall not decoded inside event history")
	}
}
