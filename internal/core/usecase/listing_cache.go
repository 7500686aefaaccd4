package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

// listingEnricher fills the presentation fields of freshly queried listings.
type listingEnricher struct {
	links    MapLinkBuilder
	contacts port.ContactProviderPort
}

// enrich derives links for every listing and attaches owner contacts.
// Contacts are looked up once per owner; a failed lookup leaves
// owner_contact null.
func (e listingEnricher) enrich(ctx context.Context, listings []domain.Listing) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "ListingEnricher"})

	seen := make(map[string]*domain.OwnerContact)
	for i := range listings {
		l := &listings[i]
		e.links.Apply(l)
		if l.Amenities == nil {
			l.Amenities = []string{}
		}

		if l.OwnerID == "" || e.contacts == nil {
			l.OwnerContact = nil
			continue
		}
		contact, ok := seen[l.OwnerID]
		if !ok {
			var err error
			contact, err = e.contacts.GetOwnerContact(ctx, l.OwnerID)
			if err != nil {
				logger.Warn("Owner contact lookup failed", port.Fields{"owner_id": l.OwnerID, "error": err.Error()})
				contact = nil
			}
			seen[l.OwnerID] = contact
		}
		l.OwnerContact = contact
	}
}

// cachedListingView serves a listing collection from the cache store,
// repairing stale entries and rebuilding on a miss.
type cachedListingView struct {
	cache    port.CacheStorePort
	enricher listingEnricher
	ttl      time.Duration
}

func (v cachedListingView) load(
	ctx context.Context,
	key string,
	fetch func(ctx context.Context) ([]domain.Listing, error),
) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedListingView",
		"cache_key": key,
	})

	raw, found, err := v.cache.Get(ctx, key)
	if err != nil {
		logger.Error("Cache read failed", err, nil)
		return nil, fmt.Errorf("%w: cache read: %w", domain.ErrUpstreamUnavailable, err)
	}

	if found {
		var cached []domain.Listing
		if err := json.Unmarshal(raw, &cached); err != nil {
			logger.Warn("Cached entry is corrupt, rebuilding", port.Fields{"error": err.Error()})
		} else {
			if cached == nil {
				cached = []domain.Listing{}
			}
			v.repair(ctx, key, cached)
			logger.Debug("Cache hit", port.Fields{"count": len(cached)})
			return cached, nil
		}
	}

	// TODO: concurrent misses on one key all hit the database; collapse them
	// with golang.org/x/sync/singleflight keyed by the cache key.
	listings, err := fetch(ctx)
	if err != nil {
		logger.Error("Listing query failed", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	v.enricher.enrich(ctx, listings)

	v.store(ctx, logger, key, listings)
	logger.Debug("Cache miss served", port.Fields{"count": len(listings)})
	return listings, nil
}

// repair re-derives links on cached listings and rewrites the entry when
// anything moved. Contacts are left as cached.
func (v cachedListingView) repair(ctx context.Context, key string, listings []domain.Listing) {
	changed := false
	for i := range listings {
		if v.enricher.links.Apply(&listings[i]) {
			changed = true
		}
	}
	if !changed {
		return
	}
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedListingView",
		"cache_key": key,
	})
	logger.Info("Repaired derived fields in cached entry", nil)
	v.store(ctx, logger, key, listings)
}

func (v cachedListingView) store(ctx context.Context, logger port.LoggerPort, key string, listings []domain.Listing) {
	body, err := json.Marshal(listings)
	if err != nil {
		logger.Error("Failed to encode listings for cache", err, nil)
		return
	}
	if err := v.cache.Set(ctx, key, body, v.ttl); err != nil {
		logger.Warn("Cache write failed, serving fresh result", port.Fields{"error": err.Error()})
	}
}
