// Package crawl discovers chibi sprite assets by walking a GitHub
// repository's directory tree through the contents API. Requests are paced
// from the API's rate-limit headers and retried a bounded number of times
// with jittered exponential backoff.
package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://api.github.com"
	defaultMaxRetries = 5
	defaultBaseDelay  = time.Second
)

// Crawler walks repository directories. The zero value is not usable; call New.
type Crawler struct {
	// Token is an optional GitHub API token. Unauthenticated quota is tight
	// (60 requests/hour), so set it for anything beyond a smoke test.
	Token string
	// MaxRetries bounds retry attempts per request on 429/5xx.
	MaxRetries int
	// BaseDelay is the backoff unit for the first retry.
	BaseDelay time.Duration
	// BaseURL is the API root; tests point it at a fake server.
	BaseURL string

	HTTPClient *http.Client

	limiter *rate.Limiter

	mu        sync.Mutex
	remaining int
	reset     time.Time
}

// New returns a crawler with default pacing and retry settings.
func New(token string) *Crawler {
	return &Crawler{
		Token:      token,
		MaxRetries: defaultMaxRetries,
		BaseDelay:  defaultBaseDelay,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		remaining:  -1,
	}
}

// Walk lists dir and every subdirectory under owner/repo, returning the file
// tree rooted at dir's entries.
func (c *Crawler) Walk(ctx context.Context, owner, repo, dir string) ([]*Item, error) {
	items, err := c.listDir(ctx, owner, repo, dir)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ContentType != "dir" {
			continue
		}
		children, err := c.Walk(ctx, owner, repo, item.Path)
		if err != nil {
			return nil, err
		}
		item.Children = children
	}
	return items, nil
}

func (c *Crawler) listDir(ctx context.Context, owner, repo, dir string) ([]*Item, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.BaseURL, owner, repo, dir)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var entries []struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parse listing of %s: %w", dir, err)
	}

	items := make([]*Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, &Item{Name: e.Name, Path: e.Path, ContentType: e.Type})
	}
	return items, nil
}

// get performs one paced, retried GET. Retries cover 429 and 5xx responses
// and transport errors; anything else is terminal on the first attempt.
func (c *Crawler) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.BaseDelay * (1 << (attempt - 1))
			if half := delay / 2; half > 0 {
				delay += rand.N(half) // jitter
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.updateQuota(resp.Header)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
		case readErr != nil:
			lastErr = fmt.Errorf("read response: %w", readErr)
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("giving up after %d retries: %w", c.MaxRetries, lastErr)
}

// updateQuota retunes the limiter from the rate-limit headers: effectively no
// delay while quota is ample, spreading the remaining budget over the window
// as it drains, and a hard wait until reset once it is exhausted.
func (c *Crawler) updateQuota(h http.Header) {
	remaining, err := strconv.Atoi(h.Get("X-Ratelimit-Remaining"))
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(h.Get("X-Ratelimit-Reset"), 10, 64)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = remaining
	c.reset = time.Unix(resetUnix, 0)

	window := time.Until(c.reset)
	switch {
	case window <= 0 || remaining > 100:
		c.limiter.SetLimit(rate.Inf)
	case remaining == 0:
		c.limiter.SetLimit(rate.Every(window))
	default:
		c.limiter.SetLimit(rate.Limit(float64(remaining) / window.Seconds()))
	}
}

// Quota reports the last observed remaining request budget and its reset
// time. Remaining is -1 before the first response.
func (c *Crawler) Quota() (remaining int, reset time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining, c.reset
}
