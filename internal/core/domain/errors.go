package domain

import "errors"

var (
	// client errors
	ErrInvalidFilter       = errors.New("invalid search filter")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrDestinationNotFound = errors.New("destination not found")
	ErrNotFound            = errors.New("not found")

	// caller identity
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrIdentityUnavailable = errors.New("identity service unavailable")

	// ErrUpstreamUnavailable covers the cache store, the property store and
	// the routing gateway once retries are spent.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
