// Package themepark is the HTTP client for the upstream live-data API.
package themepark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Failure classification for a fetch attempt. Checked with errors.Is.
var (
	// ErrTransport covers network/connection failures before any HTTP status.
	ErrTransport = errors.New("transport failure")
	// ErrUpstreamStatus covers non-2xx responses.
	ErrUpstreamStatus = errors.New("unexpected upstream status")
)

const defaultRequestTimeout = 30 * time.Second

// Client fetches the live document for one configured entity.
type Client struct {
	httpClient *http.Client
	baseURL    string
	entityID   string
}

// NewClient builds a client for {baseURL}/entity/{entityID}/live with a
// bounded request timeout (defaulted when non-positive).
func NewClient(baseURL, entityID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		entityID:   entityID,
	}
}

// Endpoint is the path of the live-data resource, used for call logging.
func (c *Client) Endpoint() string {
	return fmt.Sprintf("entity/%s/live", c.entityID)
}

// FetchResult describes one attempt regardless of outcome.
type FetchResult struct {
	Endpoint   string
	StatusCode *int // nil when the request never got a response
	Elapsed    time.Duration
	Err        error // nil on success
}

// FetchLive performs exactly one GET against the live endpoint. No retries:
// each scheduler tick is an independent, independently-logged attempt.
func (c *Client) FetchLive(ctx context.Context) (*LiveDocument, FetchResult) {
	result := FetchResult{Endpoint: c.Endpoint()}
	url := c.baseURL + "/" + result.Endpoint

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Elapsed = time.Since(start)
		result.Err = fmt.Errorf("%w: build request: %v", ErrTransport, err)
		return nil, result
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	result.Elapsed = time.Since(start)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrTransport, err)
		return nil, result
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	result.StatusCode = &code

	if code < 200 || code >= 300 {
		result.Err = fmt.Errorf("%w: %d", ErrUpstreamStatus, code)
		return nil, result
	}

	var doc LiveDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		result.Err = fmt.Errorf("%w: decode payload: %v", ErrTransport, err)
		return nil, result
	}

	return &doc, result
}
