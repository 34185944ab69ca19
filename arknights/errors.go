package arknights

import "errors"

var (
	// ErrNoDefaultRegion is returned when a logical domain is dispatched
	// without a region to resolve it against.
	ErrNoDefaultRegion = errors.New("no default server set")

	// ErrInvalidRegion is returned for a region code outside the six
	// supported servers.
	ErrInvalidRegion = errors.New("invalid server")

	// ErrInvalidDomain is returned when a logical domain is absent from the
	// region's loaded network config.
	ErrInvalidDomain = errors.New("invalid domain")

	// ErrRegionUnsupported is returned by lookups for regions the Yostar
	// login flow cannot serve (cn, bili, tw).
	ErrRegionUnsupported = errors.New("region unsupported")

	// ErrNotLoggedIn is returned by AuthRequest when the session has no UID.
	ErrNotLoggedIn = errors.New("not logged in")
)
