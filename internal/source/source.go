package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/stefanclaw/todosearch/internal/record"
)

// DefaultEndpoint serves the demo todo list.
const DefaultEndpoint = "https://jsonplaceholder.typicode.com/todos"

// MaxBodySize is the maximum number of bytes accepted from the endpoint.
const MaxBodySize = 8 * 1024 * 1024

// ErrFetch is returned for every failure to obtain the record list:
// network errors, non-2xx responses and malformed payloads.
var ErrFetch = errors.New("failed to fetch data")

// Client fetches the record list from a remote endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a Client for endpoint. A non-positive timeout falls back to 30s.
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient creates a Client with a custom http.Client (for testing).
func NewWithHTTPClient(endpoint string, c *http.Client) *Client {
	return &Client{endpoint: endpoint, http: c}
}

// Endpoint returns the URL the client fetches from.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Host returns the host part of the endpoint, or the raw endpoint if it
// does not parse.
func (c *Client) Host() string {
	u, err := url.Parse(c.endpoint)
	if err != nil || u.Host == "" {
		return c.endpoint
	}
	return u.Host
}

// Fetch performs a single GET and decodes the JSON list of records.
func (c *Client) Fetch(ctx context.Context) ([]record.Record, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is required", ErrFetch)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrFetch, err)
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("%w: response larger than %d bytes", ErrFetch, MaxBodySize)
	}

	var records []record.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrFetch, err)
	}
	if records == nil {
		// "null" decodes to a nil slice; the endpoint promised a list.
		return nil, fmt.Errorf("%w: response is not a list", ErrFetch)
	}
	return records, nil
}
