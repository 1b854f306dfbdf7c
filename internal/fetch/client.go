package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "blog-search/1.0"

// Client fetches the manifest and the blog pages it lists
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter // nil = unlimited
	userAgent  string
}

// Options configures a Client
type Options struct {
	Timeout   time.Duration // 0 = no timeout
	Rate      float64       // requests per second, 0 = unlimited
	UserAgent string
}

// NewClient creates a new page client
func NewClient(opts Options) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: opts.UserAgent,
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if opts.Rate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}
	return c
}

// Manifest fetches a JSON array of page locations.
// Relative entries are resolved against the manifest URL.
func (c *Client) Manifest(ctx context.Context, manifestURL string) ([]string, error) {
	base, err := url.Parse(manifestURL)
	if err != nil {
		return nil, fmt.Errorf("parse manifest url: %w", err)
	}

	body, err := c.get(ctx, manifestURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var entries []string
	if err := json.NewDecoder(body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	locations := make([]string, len(entries))
	for i, entry := range entries {
		ref, err := url.Parse(entry)
		if err != nil {
			// Keep the raw entry so the page fetch fails for this entry only
			locations[i] = entry
			continue
		}
		locations[i] = base.ResolveReference(ref).String()
	}

	return locations, nil
}

// Page fetches a page body. The caller must close it.
func (c *Client) Page(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	return c.get(ctx, pageURL)
}

func (c *Client) get(ctx context.Context, target string) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	return resp.Body, nil
}
