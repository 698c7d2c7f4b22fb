package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/backend-galeri/internal/resilience"
)

// ErrFetch wraps any network or decode failure against the upstream listing.
// Callers recover by treating the catalog as empty; the error is logged, not
// surfaced.
var ErrFetch = errors.New("catalog: fetch failed")

// upstreamItem mirrors the wire format of the remote image listing
// (picsum-style: id, author, download_url, plus fields we ignore).
type upstreamItem struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	DownloadURL string `json:"download_url"`
}

// Client fetches the remote image listing.
type Client struct {
	HTTP resilience.HTTPClient
	URL  string
}

// NewClient constructs a catalog client with retry and breaker defaults
// suitable for a slow public image feed.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		HTTP: resilience.HTTPClient{
			Client:      &http.Client{},
			Breaker:     resilience.NewBreaker(5, 0.5, 30*time.Second).WithTarget("catalog"),
			BaseBackoff: 200 * time.Millisecond,
			MaxAttempts: 3,
			Jitter:      0.2,
			Timeout:     timeout,
		},
		URL: url,
	}
}

// List fetches and decodes the full image listing. Records with an empty id
// are dropped; a missing author is kept as the empty string.
func (c *Client) List(ctx context.Context) ([]Item, error) {
	if c == nil || strings.TrimSpace(c.URL) == "" {
		return nil, fmt.Errorf("%w: no url configured", ErrFetch)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrFetch, resp.Status)
	}
	var raw []upstreamItem
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFetch, err)
	}
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.ID) == "" {
			continue
		}
		items = append(items, Item{
			ID:          r.ID,
			Author:      r.Author,
			DownloadURL: r.DownloadURL,
		})
	}
	return items, nil
}
