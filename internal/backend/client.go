package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"movie-discovery-web/internal/models"
)

// ErrTransport marks failures where no usable reply came back: the request could not be
// sent, or the body was not the expected JSON.
var ErrTransport = errors.New("recommendation backend unreachable")

// maxBodyBytes caps how much of a reply is read.
const maxBodyBytes = 4 << 20

// Client calls the recommendation backend.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for endpoint. A zero timeout leaves the call bounded only
// by the caller's context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewClientWithHTTP is used by tests to inject an httptest client.
func NewClientWithHTTP(endpoint string, hc *http.Client) *Client {
	return &Client{endpoint: endpoint, http: hc}
}

// Recommend posts the criteria and decodes the reply envelope. The backend answers
// failures with 4xx/5xx plus a JSON body, so the status code alone is not an error.
func (c *Client) Recommend(ctx context.Context, criteria models.FilterCriteria) (*models.RecommendationResponse, error) {
	payload, err := json.Marshal(criteria)
	if err != nil {
		return nil, fmt.Errorf("encode criteria: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("calling recommendation backend", "url", c.endpoint, "genre", criteria.Genre)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	var out models.RecommendationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: status %d, decode body: %w", ErrTransport, resp.StatusCode, err)
	}
	return &out, nil
}
