package usecases_port

import (
	"context"
	"encoding/json"
	"search-service/internal/core/domain"
)

type NearestDestinationsUseCasePort interface {
	Execute(ctx context.Context, origin domain.GeoPoint, limit int) ([]domain.RankedDestination, error)
}

type ComputeRouteUseCasePort interface {
	Execute(ctx context.Context, origin domain.GeoPoint, waypoints []domain.RouteWaypoint) (json.RawMessage, error)
}

type GeocodeUseCasePort interface {
	Execute(ctx context.Context, query string) (domain.GeoPoint, error)
}

type MapTileUseCasePort interface {
	Execute(ctx context.Context, z, x, y int) ([]byte, error)
}
