package arknights

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestLoadNetworkConfigMergesNotReplaces(t *testing.T) {
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, networkConfigBody(map[string]string{
			"gs": "https://gs.example.com",
			"u8": "https://u8.example.com",
		})), nil
	}}
	c := newTestClient(RegionEN, ft)
	seedDomains(c, RegionEN, map[Domain]string{
		DomainAS: "https://as.old.example.com",
		DomainGS: "https://gs.old.example.com",
	})

	if err := c.LoadNetworkConfig(context.Background(), RegionEN); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// New keys added, overlapping keys replaced, absent keys retained.
	if u, _ := c.DomainURL(RegionEN, DomainU8); u != "https://u8.example.com" {
		t.Fatalf("u8 = %q", u)
	}
	if u, _ := c.DomainURL(RegionEN, DomainGS); u != "https://gs.example.com" {
		t.Fatalf("gs = %q", u)
	}
	if u, ok := c.DomainURL(RegionEN, DomainAS); !ok || u != "https://as.old.example.com" {
		t.Fatalf("as = %q (ok=%v), want retained", u, ok)
	}

	// Other regions untouched.
	if _, ok := c.DomainURL(RegionJP, DomainGS); ok {
		t.Fatal("jp entry polluted by en load")
	}
}

func TestLoadNetworkConfigAllIsolatesFailures(t *testing.T) {
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Host, "txwy") {
			return jsonResponse(http.StatusOK, "not json"), nil
		}
		return jsonResponse(http.StatusOK, networkConfigBody(map[string]string{
			"gs": "https://gs." + req.URL.Host,
		})), nil
	}}
	var failures int
	c := newTestClient(RegionEN, ft, WithEventHook(func(e Event) {
		if e.Kind == EventError {
			failures++
		}
	}))

	if err := c.LoadNetworkConfig(context.Background(), RegionAll); err != nil {
		t.Fatalf("all-region load returned error: %v", err)
	}
	if failures != 1 {
		t.Fatalf("expected 1 failure event (tw), got %d", failures)
	}
	for _, r := range []Region{RegionEN, RegionJP, RegionKR, RegionCN, RegionBili} {
		if _, ok := c.DomainURL(r, DomainGS); !ok {
			t.Fatalf("region %s not loaded", r)
		}
	}
	if _, ok := c.DomainURL(RegionTW, DomainGS); ok {
		t.Fatal("tw should have been left unpopulated")
	}
}

func TestLoadNetworkConfigTimeout(t *testing.T) {
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}}
	c := newTestClient(RegionEN, ft)
	c.ConfigTimeout = 20 * time.Millisecond

	err := c.LoadNetworkConfig(context.Background(), RegionEN)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestLoadVersionConfig(t *testing.T) {
	ft := &fakeTransport{handle: func(req *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(req.URL.Host, "ak-conf"):
			return jsonResponse(http.StatusOK, networkConfigBody(map[string]string{
				"hv": "https://hv.example.com/{0}/version",
			})), nil
		case req.URL.Host == "hv.example.com":
			if !strings.Contains(req.URL.Path, "/Android/") {
				t.Errorf("platform placeholder not substituted: %s", req.URL.Path)
			}
			return jsonResponse(http.StatusOK, `{"resVersion":"23-2-X","clientVersion":"2.4.01"}`), nil
		}
		return jsonResponse(http.StatusNotFound, `{}`), nil
	}}
	c := newTestClient(RegionEN, ft)

	if err := c.LoadVersionConfig(context.Background(), RegionEN); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	res, cv := c.Versions(RegionEN)
	if res != "23-2-X" || cv != "2.4.01" {
		t.Fatalf("versions = %q/%q", res, cv)
	}
}

func TestResetNetworkConfigEmptiesEveryRegion(t *testing.T) {
	c := newTestClient(RegionEN, &fakeTransport{})
	seedDomains(c, RegionEN, map[Domain]string{DomainGS: "https://gs.example.com"})
	seedDomains(c, RegionCN, map[Domain]string{DomainGS: "https://gs.example.cn"})

	c.ResetNetworkConfig()
	for _, r := range Regions() {
		if _, ok := c.DomainURL(r, DomainGS); ok {
			t.Fatalf("region %s not cleared", r)
		}
	}
}

func TestResetVersionConfig(t *testing.T) {
	c := newTestClient(RegionEN, &fakeTransport{})
	c.mu.Lock()
	c.configs[RegionEN].resVersion = "23-2-X"
	c.configs[RegionEN].clientVersion = "2.4.01"
	c.mu.Unlock()

	c.ResetVersionConfig()
	if res, cv := c.Versions(RegionEN); res != "" || cv != "" {
		t.Fatalf("versions not cleared: %q/%q", res, cv)
	}
}
