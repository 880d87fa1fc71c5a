package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls a relay over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient targets the relay at baseURL, e.g. "http://localhost:3001".
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + "/api/send-sms",
		httpClient: httpClient,
	}
}

// Notify posts the lead to the relay and reports its outcome.
func (c *Client) Notify(ctx context.Context, req Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("relay: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("relay: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("relay: post: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("relay: status %d: unreadable response", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return fmt.Errorf("relay: status %d: %s", resp.StatusCode, out.Error)
	}
	return nil
}
