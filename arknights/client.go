// Package arknights implements the Yostar/Hypergryph login handshake used to
// impersonate the official Arknights mobile client, together with the
// per-region server configuration cache and the authenticated gameplay
// gateway the rest of the site drives.
package arknights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	userAgent   = "Dalvik/2.1.0 (Linux; U; Android 11; KB2000 Build/RP1A.201005.001)"
	platformSub = "Android"
)

// defaultHeaders are attached to every dispatched request and override any
// caller-supplied values for the same keys, matching the official client.
var defaultHeaders = map[string]string{
	"Content-Type":    "application/json",
	"X-Unity-Version": "2017.4.39f1",
	"User-Agent":      userAgent,
	"Connection":      "Keep-Alive",
}

// Client is the context object for the auth subsystem: it owns the per-region
// configuration cache, the device identity triple, and the HTTP transport.
// Create one per account (or per test); there is no process-wide state.
type Client struct {
	mu      sync.Mutex
	region  Region
	devices DeviceIDs
	configs map[Region]*regionConfig

	hc      *http.Client
	onEvent func(Event)
	now     func() time.Time

	// RequestTimeout bounds every dispatched request; ConfigTimeout bounds
	// the bootstrap config fetches. Both default to 5 seconds.
	RequestTimeout time.Duration
	ConfigTimeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithEventHook registers an observer for informational and error events.
func WithEventHook(fn func(Event)) Option {
	return func(c *Client) { c.onEvent = fn }
}

// WithClock overrides the wall clock used for signature timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient returns a client with a fresh device identity and empty
// configuration entries for all six regions.
func NewClient(region Region, opts ...Option) *Client {
	c := &Client{
		region:         region,
		devices:        newDeviceIDs(),
		configs:        make(map[Region]*regionConfig, len(allRegions)),
		hc:             &http.Client{},
		now:            time.Now,
		RequestTimeout: 5 * time.Second,
		ConfigTimeout:  5 * time.Second,
	}
	for _, r := range allRegions {
		c.configs[r] = newRegionConfig()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Region returns the client's default region.
func (c *Client) Region() Region {
	return c.region
}

// RequestArgs carries the optional parts of a dispatched request.
type RequestArgs struct {
	// Method defaults to POST when a body is present, GET otherwise.
	Method string
	// Headers are merged under the fixed default headers.
	Headers map[string]string
	// Body is serialized once before dispatch: []byte and string pass
	// through, anything else is JSON-marshaled.
	Body any
	// Session, when set, attaches uid/seqnum/secret headers.
	Session *Session
	// Sign requests the client-header signature over the serialized body.
	Sign bool
	// SignUID and SignToken override the uid/token embedded in the signed
	// header. When empty they fall back to the Session's uid and secret.
	SignUID   string
	SignToken string
}

// Request is the single choke-point for every outbound call: it resolves the
// logical domain against the region's network config, assembles headers,
// optionally signs the body, enforces the request timeout, and performs the
// call. All higher-level flows route through it.
func (c *Client) Request(ctx context.Context, domain Domain, endpoint string, args *RequestArgs, region Region) ([]byte, error) {
	if args == nil {
		args = &RequestArgs{}
	}

	urlStr, err := c.resolveURL(ctx, domain, region)
	if err != nil {
		return nil, err
	}
	urlStr = strings.ReplaceAll(urlStr, "{0}", platformSub)
	if endpoint != "" {
		urlStr = urlStr + "/" + endpoint
	}

	var body []byte
	switch b := args.Body.(type) {
	case nil:
	case []byte:
		body = b
	case string:
		body = []byte(b)
	default:
		body, err = json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	method := args.Method
	if method == "" {
		if body != nil {
			method = http.MethodPost
		} else {
			method = http.MethodGet
		}
	}

	headers := make(map[string]string, len(defaultHeaders)+len(args.Headers)+4)
	for k, v := range args.Headers {
		headers[k] = v
	}
	for k, v := range defaultHeaders {
		headers[k] = v
	}
	if args.Session != nil {
		headers["uid"] = args.Session.UID
		headers["seqnum"] = args.Session.seqnumString()
		headers["secret"] = args.Session.Secret
	}
	if args.Sign {
		uid, token := args.SignUID, args.SignToken
		if args.Session != nil {
			if uid == "" {
				uid = args.Session.UID
			}
			if token == "" {
				token = args.Session.Secret
			}
		}
		headers["Authorization"] = yostarAuthHeader(string(body), region, uid, token, c.DeviceIDs()[0], c.now())
		headers["Content-Type"] = "application/json"
	}

	ctx, cancel := context.WithTimeout(ctx, c.RequestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request to %s timed out after %s: %w", urlStr, c.RequestTimeout, context.DeadlineExceeded)
		}
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", urlStr, err)
	}
	return data, nil
}

// resolveURL maps a logical domain to a concrete base URL. Full URLs pass
// through verbatim; otherwise the region's config entry must hold the domain.
func (c *Client) resolveURL(ctx context.Context, domain Domain, region Region) (string, error) {
	if strings.Contains(string(domain), "http") {
		return string(domain), nil
	}
	if region == "" {
		return "", ErrNoDefaultRegion
	}

	c.mu.Lock()
	cfg, ok := c.configs[region]
	empty := ok && len(cfg.domains) == 0
	c.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRegion, region)
	}

	// The version-bootstrap domain always refreshes so version lookups never
	// run against a stale map; a failed load degrades to the domain lookup
	// error below.
	if empty || domain == DomainHV {
		if err := c.LoadNetworkConfig(ctx, region); err != nil {
			c.emitErr("loadNetworkConfig", region, "lazy network config load failed", err)
		}
	}

	c.mu.Lock()
	base, ok := cfg.domains[domain]
	c.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %q for server %q", ErrInvalidDomain, domain, region)
	}
	return base, nil
}

// AuthRequest targets the authenticated gameplay gateway with the session's
// credentials attached. The sequence number is incremented by exactly one
// before the call is attempted and is never rolled back on failure; a retried
// call must expect a sequence gap.
func (c *Client) AuthRequest(ctx context.Context, endpoint string, sess *Session, args *RequestArgs, region Region) ([]byte, error) {
	if region == "" {
		region = c.region
	}
	if sess == nil || sess.UID == "" {
		return nil, ErrNotLoggedIn
	}

	sess.Seqnum++
	if args == nil {
		args = &RequestArgs{}
	}
	args.Session = sess
	args.Sign = false
	return c.Request(ctx, DomainGS, endpoint, args, region)
}
