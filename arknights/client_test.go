package arknights

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeTransport routes requests to a handler and records every call.
type fakeTransport struct {
	mu     sync.Mutex
	calls  []string
	handle func(req *http.Request) (*http.Response, error)
}

func (t *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.calls = append(t.calls, req.URL.Host+req.URL.Path)
	t.mu.Unlock()
	if t.handle == nil {
		return nil, fmt.Errorf("unexpected request to %s", req.URL)
	}
	return t.handle(req)
}

func (t *fakeTransport) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(region Region, ft *fakeTransport, opts ...Option) *Client {
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: ft})}, opts...)
	return NewClient(region, opts...)
}

// networkConfigBody builds the nested JSON-in-JSON bootstrap envelope.
func networkConfigBody(domains map[string]string) string {
	var pairs []string
	for k, v := range domains {
		pairs = append(pairs, fmt.Sprintf("%q:%q", k, v))
	}
	content := fmt.Sprintf(`{"funcVer":"V049","configs":{"V049":{"network":{%s}}}}`, strings.Join(pairs, ","))
	return fmt.Sprintf(`{"sign":"sig","content":%s}`, strconv.Quote(content))
}

// seedDomains populates a region's entry directly, bypassing the network.
func seedDomains(c *Client, region Region, domains map[Domain]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range domains {
		c.configs[region].domains[k] = v
	}
}

func TestRequestNoDefaultServer(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(RegionEN, ft)

	_, err := c.Request(context.Background(), DomainGS, "account/login", nil, "")
	if !errors.Is(err, ErrNoDefaultRegion) {
		t.Fatalf("expected ErrNoDefaultRegion, got %v", err)
	}
	if n := ft.callCount(); n != 0 {
		t.Fatalf("expected no network calls, observed %d", n)
	}
}

func TestRequestInvalidServer(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(RegionEN, ft)

	_, err := c.Request(context.Background(), DomainGS, "", nil, Region("xx"))
	if !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("expected ErrInvalidRegion, got %v", err)
	}
	if n := ft.callCount(); n != 0 {
		t.Fatalf("expected no network calls, observed %d", n)
	}
}

func TestRequestInvalidDomainNoNetworkCall(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(RegionEN, ft)
	// A populated entry missing the requested domain fails before any call.
	seedDomains(c, RegionEN, map[Domain]string{DomainAS: "https://as.example.com"})

	_, err := c.Request(context.Background(), DomainGS, "account/login", nil, RegionEN)
	if !errors.Is(err, ErrInvalidDomain) {
		t.Fatalf("expected ErrInvalidDomain, got %v", err)
	}
	if n := ft.callCount(); n != 0 {
		t.Fatalf("expected no network calls, observed %d", n)
	}
}

func TestRequestEmptyEntryLoadFailureDegradesToInvalidDomain(t *testing.T) {
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, "boom"), nil
	}}
	c := newTestClient(RegionEN, ft)

	_, err := c.Request(context.Background(), DomainGS, "account/login", nil, RegionEN)
	if !errors.Is(err, ErrInvalidDomain) {
		t.Fatalf("expected ErrInvalidDomain after failed lazy load, got %v", err)
	}
	// Only the bootstrap fetch was attempted, never the target domain.
	if n := ft.callCount(); n != 1 {
		t.Fatalf("expected 1 bootstrap call, observed %d", n)
	}
}

func TestRequestVerbatimURLAndPlatformSubstitution(t *testing.T) {
	var gotURL, gotMethod string
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		gotMethod = req.Method
		return jsonResponse(http.StatusOK, `{}`), nil
	}}
	c := newTestClient(RegionEN, ft)

	_, err := c.Request(context.Background(), Domain("https://static.example.com/{0}/assets"), "version", nil, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotURL != "https://static.example.com/Android/assets/version" {
		t.Fatalf("unexpected URL %q", gotURL)
	}
	if gotMethod != http.MethodGet {
		t.Fatalf("expected GET for bodyless request, got %s", gotMethod)
	}
}

func TestRequestDefaultsAndSessionHeaders(t *testing.T) {
	var got http.Header
	var gotMethod string
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		got = req.Header.Clone()
		gotMethod = req.Method
		return jsonResponse(http.StatusOK, `{}`), nil
	}}
	c := newTestClient(RegionEN, ft)
	seedDomains(c, RegionEN, map[Domain]string{DomainGS: "https://gs.example.com"})

	sess := &Session{UID: "123", Secret: "sek", Seqnum: 7}
	_, err := c.Request(context.Background(), DomainGS, "account/syncData", &RequestArgs{
		Body:    map[string]int{"platform": 1},
		Session: sess,
		Headers: map[string]string{"Content-Type": "text/plain", "X-Extra": "1"},
	}, RegionEN)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST for body request, got %s", gotMethod)
	}
	// Defaults override caller headers, matching the official client.
	if ct := got.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected default Content-Type to win, got %q", ct)
	}
	if got.Get("X-Extra") != "1" {
		t.Fatal("caller header dropped")
	}
	if got.Get("X-Unity-Version") == "" || got.Get("User-Agent") == "" {
		t.Fatal("default headers missing")
	}
	if got.Get("uid") != "123" || got.Get("seqnum") != "7" || got.Get("secret") != "sek" {
		t.Fatalf("session headers wrong: uid=%q seqnum=%q secret=%q",
			got.Get("uid"), got.Get("seqnum"), got.Get("secret"))
	}
}

func TestRequestTimeoutDistinguishable(t *testing.T) {
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}}
	c := newTestClient(RegionEN, ft)
	c.RequestTimeout = 20 * time.Millisecond
	seedDomains(c, RegionEN, map[Domain]string{DomainGS: "https://gs.example.com"})

	_, err := c.Request(context.Background(), DomainGS, "account/login", nil, RegionEN)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("timeout error not distinguishable by message: %v", err)
	}
}

func TestAuthRequestNotLoggedIn(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(RegionEN, ft)

	_, err := c.AuthRequest(context.Background(), "account/syncData", NewSession(), nil, RegionEN)
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if n := ft.callCount(); n != 0 {
		t.Fatalf("expected no network calls, observed %d", n)
	}
}

func TestAuthRequestSeqnumIncrementsRegardlessOfFailure(t *testing.T) {
	var n int
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		n++
		if n%2 == 0 {
			return nil, fmt.Errorf("connection reset")
		}
		return jsonResponse(http.StatusOK, `{}`), nil
	}}
	c := newTestClient(RegionEN, ft)
	seedDomains(c, RegionEN, map[Domain]string{DomainGS: "https://gs.example.com"})

	sess := &Session{UID: "123", Secret: "sek", Seqnum: 1}
	const calls = 6
	for i := 0; i < calls; i++ {
		c.AuthRequest(context.Background(), "account/syncData", sess, nil, RegionEN)
	}
	if sess.Seqnum != 1+calls {
		t.Fatalf("seqnum = %d after %d calls, want %d", sess.Seqnum, calls, 1+calls)
	}
}

func TestAuthRequestDefaultsToClientRegion(t *testing.T) {
	var gotHost string
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		gotHost = req.URL.Host
		return jsonResponse(http.StatusOK, `{}`), nil
	}}
	c := newTestClient(RegionJP, ft)
	seedDomains(c, RegionJP, map[Domain]string{DomainGS: "https://gs-jp.example.com"})

	sess := &Session{UID: "123", Seqnum: 1}
	if _, err := c.AuthRequest(context.Background(), "account/syncData", sess, nil, ""); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotHost != "gs-jp.example.com" {
		t.Fatalf("dispatched to %q, want the client's default region gateway", gotHost)
	}
}
