package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient fetches from a real backend over HTTP GET.
type HTTPClient struct {
	base   string
	client *http.Client
}

// NewHTTPClient creates a client rooted at base (e.g.
// "http://data-service:9000"). Endpoints are appended as-is.
func NewHTTPClient(base string) *HTTPClient {
	return &HTTPClient{
		base:   base,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Fetch(ctx context.Context, endpoint string, params, hints map[string]any) (any, error) {
	target := c.base + endpoint
	if qs := EncodeQuery(params, hints); qs != "" {
		target += "?" + qs
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Status: 0, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{Status: resp.StatusCode, Reason: string(body)}
	}

	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &Error{Status: resp.StatusCode, Reason: "invalid JSON response: " + err.Error()}
	}
	return out, nil
}
