package constants

import "time"

// Cache keys outside the per-filter search namespace.
const (
	AllApprovedCacheKey = "all_approved_properties"
	RouteKeyPrefix      = "onm:"
	MatrixKeyPrefix     = "matrix:"
	GeocodeKeyPrefix    = "geocode:"
	TileKeyPrefix       = "tile:"
	RateLimitKeyPrefix  = "ratelimit:"
)

const (
	SearchResultTTL = time.Hour
	TileTTL         = time.Hour
	GeocodeTTL      = time.Hour
	RouteTTL        = 10 * time.Minute
	MatrixTTL       = 10 * time.Minute
)

// MaxGatewayPoints is the point limit of the route and matrix APIs.
const MaxGatewayPoints = 10
