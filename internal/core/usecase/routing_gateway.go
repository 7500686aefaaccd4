package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"search-service/internal/constants"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
	"search-service/pkg/retry"
)

// CachedRoutingGateway wraps the raw routing API with retries, a response
// cache and the point limits of the upstream.
type CachedRoutingGateway struct {
	upstream port.RoutingGatewayPort
	cache    port.CacheStorePort
	policy   retry.Policy
	fallback domain.GeoPoint
}

var _ port.RoutingGatewayPort = (*CachedRoutingGateway)(nil)

// NewCachedRoutingGateway builds the decorator. fallback is returned by
// Geocode when the upstream keeps failing.
func NewCachedRoutingGateway(
	upstream port.RoutingGatewayPort,
	cache port.CacheStorePort,
	policy retry.Policy,
	fallback domain.GeoPoint,
) *CachedRoutingGateway {
	return &CachedRoutingGateway{
		upstream: upstream,
		cache:    cache,
		policy:   policy,
		fallback: fallback,
	}
}

func (g *CachedRoutingGateway) Route(ctx context.Context, origin domain.GeoPoint, waypoints []domain.GeoPoint) (json.RawMessage, error) {
	logger := gatewayLogger(ctx, "Route")
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("%w: at least one waypoint is required", domain.ErrInvalidRequest)
	}
	waypoints = truncatePoints(logger, waypoints, constants.MaxGatewayPoints)

	key := constants.RouteKeyPrefix + origin.String() + ":" + domain.FormatCoordList(waypoints)
	body, err := g.cachedBytes(ctx, logger, key, constants.RouteTTL, func(ctx context.Context) ([]byte, error) {
		return g.upstream.Route(ctx, origin, waypoints)
	}, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (g *CachedRoutingGateway) Matrix(ctx context.Context, coords []domain.GeoPoint) (json.RawMessage, error) {
	logger := gatewayLogger(ctx, "Matrix")
	if len(coords) < 2 {
		return nil, fmt.Errorf("%w: matrix needs at least two points", domain.ErrInvalidRequest)
	}
	coords = truncatePoints(logger, coords, constants.MaxGatewayPoints)

	key := constants.MatrixKeyPrefix + domain.FormatCoordList(coords)
	body, err := g.cachedBytes(ctx, logger, key, constants.MatrixTTL, func(ctx context.Context) ([]byte, error) {
		return g.upstream.Matrix(ctx, coords)
	}, matrixCacheable(len(coords)))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Geocode resolves query to a point. "lat,lon" literals are parsed locally.
// When the upstream is exhausted the fallback point is returned without error.
func (g *CachedRoutingGateway) Geocode(ctx context.Context, query string) (domain.GeoPoint, error) {
	logger := gatewayLogger(ctx, "Geocode").WithFields(port.Fields{"query": query})

	query = strings.TrimSpace(query)
	if p, ok := domain.ParseLatLon(query); ok {
		return p, nil
	}
	if query == "" {
		return domain.GeoPoint{}, fmt.Errorf("%w: empty geocode query", domain.ErrInvalidRequest)
	}

	key := constants.GeocodeKeyPrefix + strings.ToLower(query)
	if raw, found := g.cacheGet(ctx, logger, key); found {
		var p domain.GeoPoint
		if err := json.Unmarshal(raw, &p); err == nil && p.Valid() {
			return p, nil
		}
		logger.Warn("Ignoring unreadable geocode cache entry", nil)
	}

	p, err := retry.Do(ctx, g.policyFor(ctx, logger), func(ctx context.Context) (domain.GeoPoint, error) {
		return g.upstream.Geocode(ctx, query)
	})
	if err != nil {
		if ctx.Err() != nil {
			return domain.GeoPoint{}, ctx.Err()
		}
		logger.Warn("Geocoding failed, using fallback point", port.Fields{
			"error":    err.Error(),
			"fallback": g.fallback.String(),
		})
		return g.fallback, nil
	}

	if body, err := json.Marshal(p); err == nil {
		g.cacheSet(ctx, logger, key, body, constants.GeocodeTTL)
	}
	return p, nil
}

func (g *CachedRoutingGateway) Tile(ctx context.Context, z, x, y int) ([]byte, error) {
	logger := gatewayLogger(ctx, "Tile")
	key := constants.TileKeyPrefix + strconv.Itoa(z) + ":" + strconv.Itoa(x) + ":" + strconv.Itoa(y)
	return g.cachedBytes(ctx, logger, key, constants.TileTTL, func(ctx context.Context) ([]byte, error) {
		return g.upstream.Tile(ctx, z, x, y)
	}, nil)
}

// cachedBytes serves key from the cache or calls fetch with retries and
// stores the result. Cache failures degrade to a direct upstream call.
// A body rejected by cacheable is still returned but never stored.
func (g *CachedRoutingGateway) cachedBytes(
	ctx context.Context,
	logger port.LoggerPort,
	key string,
	ttl time.Duration,
	fetch func(ctx context.Context) ([]byte, error),
	cacheable func([]byte) error,
) ([]byte, error) {
	if raw, found := g.cacheGet(ctx, logger, key); found {
		return raw, nil
	}

	body, err := retry.Do(ctx, g.policyFor(ctx, logger), fetch)
	if err != nil {
		logger.Error("Routing gateway call failed", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	if cacheable != nil {
		if err := cacheable(body); err != nil {
			logger.Warn("Not caching unusable upstream response", port.Fields{"key": key, "error": err.Error()})
			return body, nil
		}
	}
	g.cacheSet(ctx, logger, key, body, ttl)
	return body, nil
}

// matrixCacheable accepts a matrix body only when its origin row can be
// read and covers every requested point. Units do not affect the shape.
func matrixCacheable(points int) func([]byte) error {
	return func(body []byte) error {
		row, err := domain.ParseMatrixRow(body, domain.MatrixUnitsMeters)
		if err != nil {
			return err
		}
		if len(row.Km) < points {
			return fmt.Errorf("%w: origin row has %d of %d points", domain.ErrMatrixShape, len(row.Km), points)
		}
		return nil
	}
}

func (g *CachedRoutingGateway) cacheGet(ctx context.Context, logger port.LoggerPort, key string) ([]byte, bool) {
	if g.cache == nil {
		return nil, false
	}
	raw, found, err := g.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Gateway cache read failed", port.Fields{"key": key, "error": err.Error()})
		return nil, false
	}
	return raw, found
}

func (g *CachedRoutingGateway) cacheSet(ctx context.Context, logger port.LoggerPort, key string, body []byte, ttl time.Duration) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Set(ctx, key, body, ttl); err != nil {
		logger.Warn("Gateway cache write failed", port.Fields{"key": key, "error": err.Error()})
	}
}

// policyFor stops retrying once the caller has gone away and logs each retry.
func (g *CachedRoutingGateway) policyFor(ctx context.Context, logger port.LoggerPort) retry.Policy {
	p := g.policy
	p.Retryable = func(error) bool { return ctx.Err() == nil }
	p.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn("Routing gateway call failed, retrying", port.Fields{
			"attempt": attempt,
			"wait":    wait.String(),
			"error":   err.Error(),
		})
	}
	return p
}

func truncatePoints(logger port.LoggerPort, points []domain.GeoPoint, max int) []domain.GeoPoint {
	if len(points) <= max {
		return points
	}
	logger.Warn("Too many points for the routing API, truncating", port.Fields{
		"given": len(points),
		"limit": max,
	})
	return points[:max]
}

func gatewayLogger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedRoutingGateway",
		"method":    method,
	})
}
