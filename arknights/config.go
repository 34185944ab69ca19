package arknights

import (
	"context"
	"encoding/json"
	"fmt"
)

// regionConfig is one region's resolved endpoints and version strings.
// Entries are never merged across regions.
type regionConfig struct {
	domains       map[Domain]string
	resVersion    string
	clientVersion string
}

func newRegionConfig() *regionConfig {
	return &regionConfig{domains: make(map[Domain]string)}
}

// networkConfigEnvelope is the outer shape of the bootstrap network-config
// document. Content is itself a JSON-encoded document.
type networkConfigEnvelope struct {
	Sign    string `json:"sign"`
	Content string `json:"content"`
}

type networkConfigContent struct {
	Configs map[string]struct {
		Network map[string]string `json:"network"`
	} `json:"configs"`
	FuncVer string `json:"funcVer"`
}

type versionConfig struct {
	ResVersion    string `json:"resVersion"`
	ClientVersion string `json:"clientVersion"`
}

// LoadNetworkConfig fetches a region's network-config document and merges the
// extracted domain map into that region's entry. Keys absent from the payload
// are retained. RegionAll loads every region sequentially; a failure in one
// region is reported through the event hook and does not abort the rest.
func (c *Client) LoadNetworkConfig(ctx context.Context, region Region) error {
	if region == "" {
		region = c.region
	}
	if region == RegionAll {
		for _, r := range allRegions {
			if err := c.LoadNetworkConfig(ctx, r); err != nil {
				c.emitErr("loadNetworkConfig", r, "network config load failed", err)
			}
		}
		return nil
	}

	route, err := networkRoute(region)
	if err != nil {
		return err
	}
	c.emitInfo("loadNetworkConfig", region, "loading network config")

	ctx, cancel := context.WithTimeout(ctx, c.ConfigTimeout)
	defer cancel()

	data, err := c.Request(ctx, Domain(route), "", nil, region)
	if err != nil {
		return fmt.Errorf("fetch network config for %s: %w", region, err)
	}

	var envelope networkConfigEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("parse network config envelope for %s: %w", region, err)
	}
	var content networkConfigContent
	if err := json.Unmarshal([]byte(envelope.Content), &content); err != nil {
		return fmt.Errorf("parse network config content for %s: %w", region, err)
	}
	funcCfg, ok := content.Configs[content.FuncVer]
	if !ok {
		return fmt.Errorf("network config for %s missing funcVer %q", region, content.FuncVer)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cfg := c.configs[region]
	for k, v := range funcCfg.Network {
		cfg.domains[Domain(k)] = v
	}
	return nil
}

// LoadVersionConfig fetches a region's version document via the bootstrap
// domain and merges the version strings into that region's entry. RegionAll
// fans out sequentially with per-region error isolation.
func (c *Client) LoadVersionConfig(ctx context.Context, region Region) error {
	if region == "" {
		region = c.region
	}
	if region == RegionAll {
		for _, r := range allRegions {
			if err := c.LoadVersionConfig(ctx, r); err != nil {
				c.emitErr("loadVersionConfig", r, "version config load failed", err)
			}
		}
		return nil
	}
	if _, err := networkRoute(region); err != nil {
		return err
	}
	c.emitInfo("loadVersionConfig", region, "loading version config")

	ctx, cancel := context.WithTimeout(ctx, c.ConfigTimeout)
	defer cancel()

	data, err := c.Request(ctx, DomainHV, "", nil, region)
	if err != nil {
		return fmt.Errorf("fetch version config for %s: %w", region, err)
	}

	var versions versionConfig
	if err := json.Unmarshal(data, &versions); err != nil {
		return fmt.Errorf("parse version config for %s: %w", region, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cfg := c.configs[region]
	if versions.ResVersion != "" {
		cfg.resVersion = versions.ResVersion
	}
	if versions.ClientVersion != "" {
		cfg.clientVersion = versions.ClientVersion
	}
	return nil
}

// ResetNetworkConfig clears every region's domain map. Call before a full
// reload to guarantee no stale cross-region state survives.
func (c *Client) ResetNetworkConfig() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cfg := range c.configs {
		cfg.domains = make(map[Domain]string)
	}
}

// ResetVersionConfig clears every region's version strings.
func (c *Client) ResetVersionConfig() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cfg := range c.configs {
		cfg.resVersion = ""
		cfg.clientVersion = ""
	}
}

// Versions returns the cached resource and client versions for a region.
func (c *Client) Versions(region Region) (resVersion, clientVersion string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cfg, ok := c.configs[region]; ok {
		return cfg.resVersion, cfg.clientVersion
	}
	return "", ""
}

// DomainURL returns the cached base URL for a logical domain, if loaded.
func (c *Client) DomainURL(region Region, domain Domain) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg, ok := c.configs[region]
	if !ok {
		return "", false
	}
	u, ok := cfg.domains[domain]
	return u, ok
}
