// Package engine is the client for the hosted agent engine: a thin REST
// adapter over the reasoning-engine query API. All reasoning, tool
// execution, and session mutation happen on the remote side; this package
// only moves JSON.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"aetui/config"
	"aetui/model"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Full reasoning-engine resource name:
// projects/{project}/locations/{location}/reasoningEngines/{id}
var resourceNameRe = regexp.MustCompile(`^projects/[^/]+/locations/([^/]+)/reasoningEngines/[^/]+$`)

// Client is a handle to one deployed agent engine.
type Client struct {
	httpClient *http.Client
	baseURL    string // https://{location}-aiplatform.googleapis.com/v1/{name}
	name       string // full resource name
}

// Resolve builds a handle for the engine named by locator and probes that
// the resource exists and the credentials work. Any failure is a
// *ResolutionError; the caller reopens the bootstrap dialog rather than
// crash.
//
// The locator must be a full resource name. When creds carries service
// account key material it is used directly; otherwise application default
// credentials apply.
func Resolve(ctx context.Context, locator string, creds *config.Credentials) (*Client, error) {
	match := resourceNameRe.FindStringSubmatch(locator)
	if match == nil {
		return nil, &ResolutionError{
			Locator: locator,
			Err:     fmt.Errorf("not a reasoning engine resource name (expected projects/*/locations/*/reasoningEngines/*)"),
		}
	}
	location := match[1]

	httpClient, err := authClient(ctx, creds)
	if err != nil {
		return nil, &ResolutionError{Locator: locator, Err: err}
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1/%s", location, locator),
		name:       locator,
	}

	if err := c.probe(ctx); err != nil {
		return nil, &ResolutionError{Locator: locator, Err: err}
	}
	return c, nil
}

// Name returns the engine's full resource name.
func (c *Client) Name() string {
	return c.name
}

func authClient(ctx context.Context, creds *config.Credentials) (*http.Client, error) {
	if creds != nil && len(creds.ServiceAccountInfo) > 0 {
		gc, err := google.CredentialsFromJSON(ctx, creds.ServiceAccountInfo, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("invalid service account key: %w", err)
		}
		return oauth2.NewClient(ctx, gc.TokenSource), nil
	}

	client, err := google.DefaultClient(ctx, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("no application default credentials: %w", err)
	}
	return client, nil
}

// probe fetches the resource itself to confirm it exists and the token is
// accepted.
func (c *Client) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// ListSessions implements model.Engine.
func (c *Client) ListSessions(ctx context.Context, userID string) ([]model.SessionSummary, error) {
	var out struct {
		Sessions []model.SessionSummary `json:"sessions"`
	}
	err := c.call(ctx, "list_sessions", map[string]any{"user_id": userID}, &out)
	if err != nil {
		return nil, fmt.Errorf("list_sessions failed: %w", err)
	}
	return out.Sessions, nil
}

// GetSession implements model.Engine. A session the engine no longer knows
// returns (nil, nil).
func (c *Client) GetSession(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	var out json.RawMessage
	err := c.call(ctx, "get_session", map[string]any{
		"user_id":    userID,
		"session_id": sessionID,
	}, &out)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get_session failed: %w", err)
	}

	if len(out) == 0 || string(out) == "null" {
		return nil, nil
	}

	var session model.Session
	if err := json.Unmarshal(out, &session); err != nil {
		return nil, fmt.Errorf("get_session returned malformed session: %w", err)
	}
	return &session, nil
}

// CreateSession implements model.Engine.
func (c *Client) CreateSession(ctx context.Context, userID string) (*model.Session, error) {
	var session model.Session
	err := c.call(ctx, "create_session", map[string]any{"user_id": userID}, &session)
	if err != nil {
		return nil, fmt.Errorf("create_session failed: %w", err)
	}
	if session.LastUpdateTime == "" {
		session.LastUpdateTime = model.EpochString(fmt.Sprintf("%d", time.Now().Unix()))
	}
	return &session, nil
}

// DeleteSession implements model.Engine.
func (c *Client) DeleteSession(ctx context.Context, userID, sessionID string) error {
	err := c.call(ctx, "delete_session", map[string]any{
		"user_id":    userID,
		"session_id": sessionID,
	}, nil)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete_session failed: %w", err)
	}
	return nil
}

// call POSTs one class-method invocation to the :query endpoint and
// decodes its output envelope into out (which may be nil).
func (c *Client) call(ctx context.Context, classMethod string, input map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{
		"classMethod": classMethod,
		"input":       input,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+":query", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	var envelope struct {
		Output json.RawMessage `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	if len(envelope.Output) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Output, out)
}

type apiErr struct {
	status  int
	message string
}

func (e *apiErr) Error() string {
	return fmt.Sprintf("engine returned %d: %s", e.status, e.message)
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		message = body.Error.Message
	}
	return &apiErr{status: resp.StatusCode, message: message}
}

func isNotFound(err error) bool {
	var ae *apiErr
	if errors.As(err, &ae) {
		return ae.status == http.StatusNotFound ||
			strings.Contains(strings.ToLower(ae.message), "not found")
	}
	return false
}
