package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"aetui/model"
)

// newTestClient points a Client at a stub server standing in for the
// engine's REST surface.
func newTestClient(srv *httptest.Server) *Client {
	name := "projects/p/locations/us-central1/reasoningEngines/123"
	return &Client{
		httpClient: srv.Client(),
		baseURL:    srv.URL + "/v1/" + name,
		name:       name,
	}
}

type queryRequest struct {
	ClassMethod string         `json:"classMethod"`
	Input       map[string]any `json:"input"`
}

func TestResolveMalformedLocator(t *testing.T) {
	tests := []string{
		"",
		"not-a-resource-name",
		"projects/p/locations/us-central1",
		"projects/p/locations/us-central1/models/123",
	}

	for _, locator := range tests {
		t.Run(locator, func(t *testing.T) {
			_, err := Resolve(context.Background(), locator, nil)
			var re *ResolutionError
			if !errors.As(err, &re) {
				t.Fatalf("expected ResolutionError, got %v", err)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.ClassMethod != "list_sessions" {
			t.Errorf("classMethod: got %q", req.ClassMethod)
		}
		if req.Input["user_id"] != "u1" {
			t.Errorf("user_id: got %v", req.Input["user_id"])
		}
		fmt.Fprint(w, `{"output":{"sessions":[
			{"id":"s1","lastUpdateTime":"100"},
			{"id":"s2","lastUpdateTime":"200"}
		]}}`)
	}))
	defer srv.Close()

	sessions, err := newTestClient(srv).ListSessions(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != "s1" || sessions[1].ID != "s2" {
		t.Errorf("unexpected sessions: %+v", sessions)
	}
}

func TestGetSession(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantAbsent bool
		wantErr    bool
	}{
		{
			name:   "present",
			status: http.StatusOK,
			body:   `{"output":{"id":"s1","lastUpdateTime":"100","events":[]}}`,
		},
		{
			name:       "null output means absent",
			status:     http.StatusOK,
			body:       `{"output":null}`,
			wantAbsent: true,
		},
		{
			name:       "404 means absent",
			status:     http.StatusNotFound,
			body:       `{"error":{"message":"Session not found"}}`,
			wantAbsent: true,
		},
		{
			name:       "not-found message means absent",
			status:     http.StatusBadRequest,
			body:       `{"error":{"message":"Session s1 not found for user u1"}}`,
			wantAbsent: true,
		},
		{
			name:    "other failure is an error",
			status:  http.StatusInternalServerError,
			body:    `{"error":{"message":"boom"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			session, err := newTestClient(srv).GetSession(context.Background(), "u1", "s1")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantAbsent {
				if session != nil {
					t.Errorf("expected absent session, got %+v", session)
				}
				return
			}
			if session == nil || session.ID != "s1" {
				t.Errorf("unexpected session: %+v", session)
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"output":{"id":"fresh"}}`)
	}))
	defer srv.Close()

	session, err := newTestClient(srv).CreateSession(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ID != "fresh" {
		t.Errorf("id: got %q", session.ID)
	}
	if session.LastUpdateTime == "" {
		t.Error("expected a synthesized lastUpdateTime when the engine omits one")
	}
}

func TestDeleteSessionIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"message":"Session not found"}}`)
	}))
	defer srv.Close()

	// Deleting an already-gone session is not an error for the caller.
	if err := newTestClient(srv).DeleteSession(context.Background(), "u1", "gone"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStreamQueryOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.ClassMethod != "stream_query" {
			t.Errorf("classMethod: got %q", req.ClassMethod)
		}
		if req.Input["message"] != "hello" {
			t.Errorf("message: got %v", req.Input["message"])
		}

		// Mixed framing on purpose: SSE-prefixed, bare JSON, blank lines,
		// and one garbage line that must be skipped.
		fmt.Fprintln(w, `data: {"content":{"role":"model","parts":[{"function_call":{"name":"lookup"}}]}}`)
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, `{"content":{"role":"user","parts":[{"functionResponse":{"name":"lookup"}}]}}`)
		fmt.Fprintln(w, `: keepalive`)
		fmt.Fprintln(w, `data: {"content":{"role":"model","parts":[{"text":"answer"}]}}`)
	}))
	defer srv.Close()

	var events []model.Event
	err := newTestClient(srv).StreamQuery(context.Background(), "u1", "s1", "hello", func(ev model.Event) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].FirstPart().FunctionCall == nil {
		t.Error("first event should carry the function call")
	}
	if events[1].FirstPart().FunctionResponse == nil {
		t.Error("second event should carry the function response")
	}
	if events[2].FirstPart().Text != "answer" {
		t.Errorf("third event text: got %q", events[2].FirstPart().Text)
	}
}

func TestStreamQueryHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":{"message":"overloaded"}}`)
	}))
	defer srv.Close()

	err := newTestClient(srv).StreamQuery(context.Background(), "u1", "s1", "hi", func(model.Event) error {
		t.Fatal("no events expected")
		return nil
	})

	var se *StreamError
	if !errors.As(err, &se) {
		t.Fatalf("expected StreamError, got %v", err)
	}
}

func TestStreamQueryConsumerStops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `data: {"content":{"role":"model","parts":[{"text":"one"}]}}`)
		fmt.Fprintln(w, `data: {"content":{"role":"model","parts":[{"text":"two"}]}}`)
	}))
	defer srv.Close()

	seen := 0
	err := newTestClient(srv).StreamQuery(context.Background(), "u1", "s1", "hi", func(model.Event) error {
		seen++
		return errors.New("stop")
	})
	if err == nil {
		t.Fatal("expected the consumer error to propagate")
	}
	if seen != 1 {
		t.Errorf("consumption should stop after the failing event, saw %d", seen)
	}
}
