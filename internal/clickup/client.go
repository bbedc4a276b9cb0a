// Package clickup implements a small client for the ClickUp v2 REST API.
//
// The client covers exactly what the aggregation pipeline consumes:
// authenticated GETs that decode into untyped JSON trees. Transient
// failures (rate limiting, 5xx, transport errors) are retried with
// exponential backoff inside the client, so callers always see a single
// final outcome per request.
package clickup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultBaseURL is the public ClickUp v2 API endpoint.
const DefaultBaseURL = "https://api.clickup.com/api/v2"

// APIError is a non-2xx response from the ClickUp API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// newBackOff builds the retry policy for one request. Package-level to
// allow test override; BackOff instances are stateful, so a fresh one is
// built per call.
var newBackOff = func(maxElapsed time.Duration) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = maxElapsed
	return bo
}

// Client issues authenticated requests against the ClickUp API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxElapsed time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryBudget caps the total time spent retrying one request.
func WithRetryBudget(d time.Duration) Option {
	return func(c *Client) { c.maxElapsed = d }
}

// New creates a Client for the given base URL. An empty baseURL selects
// the public ClickUp API.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxElapsed: 10 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get issues an authenticated GET against path and decodes the JSON
// response. Rate limiting (429), server errors (5xx), and transport
// failures are retried until the retry budget is spent; any other
// non-2xx status fails immediately as an *APIError.
func (c *Client) Get(ctx context.Context, path, token string, query url.Values) (any, error) {
	var result any
	op := func() error {
		v, err := c.get(ctx, path, token, query)
		if err != nil {
			if retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = v
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(newBackOff(c.maxElapsed), ctx)); err != nil {
		return nil, err
	}
	return result, nil
}

// get performs one attempt.
func (c *Client) get(ctx context.Context, path, token string, query url.Values) (any, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(body)}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return payload, nil
}

// apiMessage extracts ClickUp's {"err": "..."} error body; failing that,
// the raw body is used, truncated to keep error strings single-line.
func apiMessage(body []byte) string {
	var parsed struct {
		Err string `json:"err"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Err != "" {
		return parsed.Err
	}
	s := strings.TrimSpace(string(body))
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		s = "no response body"
	}
	return s
}

// retryable classifies errors worth another attempt: rate limiting,
// server-side failures, and transport-level problems.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// ─── Path helpers ────────────────────────────────────────────────────────────
//
// One helper per upstream route the aggregator uses. IDs are escaped so a
// hostile workspace or space ID cannot smuggle path segments.

// TeamSpacesPath lists the spaces of a workspace.
func TeamSpacesPath(teamID string) string {
	return "team/" + url.PathEscape(teamID) + "/space"
}

// TeamTasksPath lists tasks across a workspace.
func TeamTasksPath(teamID string) string {
	return "team/" + url.PathEscape(teamID) + "/task"
}

// TeamCommentsPath lists the workspace comment stream.
func TeamCommentsPath(teamID string) string {
	return "team/" + url.PathEscape(teamID) + "/comment"
}

// SpaceListsPath lists the folderless lists of a space.
func SpaceListsPath(spaceID string) string {
	return "space/" + url.PathEscape(spaceID) + "/list"
}

// SpaceFoldersPath lists the folders of a space.
func SpaceFoldersPath(spaceID string) string {
	return "space/" + url.PathEscape(spaceID) + "/folder"
}
