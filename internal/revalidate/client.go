// Package revalidate pings the frontend's cache-revalidation hook after
// content changes. Calls are best effort: failures are logged, never
// propagated, and the frontend falls back to its own TTL revalidation.
package revalidate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tlh_backend/internal/logger"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 3 * time.Second},
	}
}

// ChefPage invalidates a single chef's public page and the listing page.
func (c *Client) ChefPage(ctx context.Context, chefID string) {
	c.ping(ctx, fmt.Sprintf("/api/revalidate?path=/chef/%s", chefID))
	c.ping(ctx, "/api/revalidate?path=/")
}

func (c *Client) ping(ctx context.Context, path string) {
	if c.baseURL == "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		logger.CtxWarn(ctx, "revalidate request build failed", "path", path, "error", err)
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		logger.CtxWarn(ctx, "revalidate ping failed", "path", path, "error", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		logger.CtxWarn(ctx, "revalidate ping rejected", "path", path, "status", resp.StatusCode)
	}
}
