package arknights

import "fmt"

// Region identifies one of the six Arknights game servers.
type Region string

const (
	RegionEN   Region = "en"
	RegionJP   Region = "jp"
	RegionKR   Region = "kr"
	RegionCN   Region = "cn"
	RegionBili Region = "bili"
	RegionTW   Region = "tw"

	// RegionAll fans a config load out over every region.
	RegionAll Region = "all"
)

// Domain is a logical domain code resolved against a region's network config.
type Domain string

const (
	DomainGS     Domain = "gs" // authenticated gameplay gateway
	DomainAS     Domain = "as"
	DomainU8     Domain = "u8" // U8 token gateway
	DomainHU     Domain = "hu"
	DomainHV     Domain = "hv" // version bootstrap
	DomainRC     Domain = "rc"
	DomainAN     Domain = "an"
	DomainPreAN  Domain = "prean"
	DomainSL     Domain = "sl"
	DomainOF     Domain = "of"
	DomainPkgAd  Domain = "pkgAd"
	DomainPkgIOS Domain = "pkgIOS"
)

// allRegions is the fan-out order for "all" loads.
var allRegions = []Region{RegionEN, RegionJP, RegionKR, RegionCN, RegionBili, RegionTW}

// Regions returns the six supported regions in fan-out order.
func Regions() []Region {
	out := make([]Region, len(allRegions))
	copy(out, allRegions)
	return out
}

// ParseRegion validates a user-supplied region string.
func ParseRegion(s string) (Region, error) {
	switch Region(s) {
	case RegionEN, RegionJP, RegionKR, RegionCN, RegionBili, RegionTW:
		return Region(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, s)
}

// networkRoute returns the bootstrap network-config URL for a region.
func networkRoute(r Region) (string, error) {
	switch r {
	case RegionEN:
		return "https://ak-conf.arknights.global/config/prod/official/network_config", nil
	case RegionJP:
		return "https://ak-conf.arknights.jp/config/prod/official/network_config", nil
	case RegionKR:
		return "https://ak-conf.arknights.kr/config/prod/official/network_config", nil
	case RegionCN:
		return "https://ak-conf.hypergryph.com/config/prod/official/network_config", nil
	case RegionBili:
		return "https://ak-conf.hypergryph.com/config/prod/b/network_config", nil
	case RegionTW:
		return "https://ak-conf.txwy.tw/config/prod/official/network_config", nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, r)
}

// passportHost returns the Yostar passport gateway for a region. Only the
// Yostar-published servers have one.
func passportHost(r Region) (string, error) {
	switch r {
	case RegionEN:
		return "https://passport.arknights.global", nil
	case RegionJP:
		return "https://passport.arknights.jp", nil
	case RegionKR:
		return "https://passport.arknights.kr", nil
	case RegionCN, RegionBili, RegionTW:
		return "", fmt.Errorf("%w: no passport gateway for %q", ErrRegionUnsupported, r)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, r)
}

// authGatewayHost returns the Yostar identity-provider gateway used for the
// email code exchange.
func authGatewayHost(r Region) (string, error) {
	switch r {
	case RegionEN:
		return "https://en-sdk-api.yostarplat.com", nil
	case RegionJP:
		return "https://jp-sdk-api.yostarplat.com", nil
	case RegionKR:
		return "https://kr-sdk-api.yostarplat.com", nil
	case RegionCN, RegionBili, RegionTW:
		return "", fmt.Errorf("%w: no identity provider for %q", ErrRegionUnsupported, r)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, r)
}

// channelID returns the distributor channel for the U8 token exchange.
func channelID(r Region) (string, error) {
	switch r {
	case RegionCN:
		return "1", nil
	case RegionBili:
		return "2", nil
	case RegionEN, RegionJP, RegionKR:
		return "3", nil
	case RegionTW:
		return "", fmt.Errorf("%w: no U8 channel for %q", ErrRegionUnsupported, r)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, r)
}

// networkVersion returns the protocol version constant embedded in the
// account/login payload.
func networkVersion(r Region) (string, error) {
	switch r {
	case RegionCN, RegionBili:
		return "5", nil
	case RegionEN, RegionJP, RegionKR:
		return "1", nil
	case RegionTW:
		return "", fmt.Errorf("%w: no network version for %q", ErrRegionUnsupported, r)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, r)
}

// productID returns the Yostar SDK product identifier for the signed header.
// The non-Yostar servers never reach a signed endpoint, so they fall back to
// the Korea constant the upstream SDK ships with.
func productID(r Region) string {
	switch r {
	case RegionEN:
		return "US-ARKNIGHTS"
	case RegionJP:
		return "JP-ARKNIGHTS"
	default:
		return "KR-ARKNIGHTS"
	}
}

// language mirrors the productID mapping.
func language(r Region) string {
	switch r {
	case RegionEN:
		return "en"
	case RegionJP:
		return "ja"
	default:
		return "ko"
	}
}
