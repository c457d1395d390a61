package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"aetui/config"
	"aetui/model"
)

// StreamQuery implements model.Engine. It POSTs the user message to the
// :streamQuery endpoint and invokes fn once per response event, in arrival
// order. The call blocks until the engine finishes the turn; there is no
// client-side cancellation beyond ctx, and no timeout, since a long agent
// turn is normal.
//
// The endpoint answers with one JSON object per line, sometimes wrapped in
// an SSE "data:" prefix depending on the serving path. Lines that decode
// to neither shape are logged and skipped rather than failing the whole
// turn.
func (c *Client) StreamQuery(ctx context.Context, userID, sessionID, message string, fn model.StreamFunc) error {
	body, err := json.Marshal(map[string]any{
		"classMethod": "stream_query",
		"input": map[string]any{
			"user_id":    userID,
			"session_id": sessionID,
			"message":    message,
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+":streamQuery?alt=sse", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &StreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StreamError{Err: apiError(resp)}
	}

	scanner := bufio.NewScanner(resp.Body)
	// Single events can carry large tool payloads
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if line == "" {
			continue
		}

		var event model.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Stream] Skipping undecodable line: %v", err)
			}
			continue
		}

		if err := fn(event); err != nil {
			return fmt.Errorf("stream consumer failed: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return &StreamError{Err: err}
	}
	return nil
}
