package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

type ComputeRouteUseCase struct {
	dataset port.DestinationDatasetPort
	routing port.RoutingGatewayPort
}

func NewComputeRouteUseCase(dataset port.DestinationDatasetPort, routing port.RoutingGatewayPort) *ComputeRouteUseCase {
	return &ComputeRouteUseCase{dataset: dataset, routing: routing}
}

func (uc *ComputeRouteUseCase) Execute(ctx context.Context, origin domain.GeoPoint, waypoints []domain.RouteWaypoint) (json.RawMessage, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "ComputeRoute",
		"origin":    origin.String(),
		"waypoints": len(waypoints),
	})

	if !origin.Valid() {
		return nil, fmt.Errorf("%w: origin coordinates out of range", domain.ErrInvalidRequest)
	}
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("%w: at least one destination is required", domain.ErrInvalidRequest)
	}

	points, err := uc.resolve(waypoints)
	if err != nil {
		ucLogger.Info("Route request rejected", port.Fields{"reason": err.Error()})
		return nil, err
	}

	body, err := uc.routing.Route(ctx, origin, points)
	if err != nil {
		ucLogger.Error("Route computation failed", err, nil)
		return nil, err
	}
	return body, nil
}

// resolve turns each waypoint into a point. Explicit coordinates win over a
// name; named waypoints are looked up in the dataset.
func (uc *ComputeRouteUseCase) resolve(waypoints []domain.RouteWaypoint) ([]domain.GeoPoint, error) {
	var catalog *domain.DestinationCatalog
	points := make([]domain.GeoPoint, 0, len(waypoints))

	for i, w := range waypoints {
		switch {
		case w.Lat != nil && w.Lon != nil:
			p := domain.GeoPoint{Lat: *w.Lat, Lon: *w.Lon}
			if !p.Valid() {
				return nil, fmt.Errorf("%w: destination %d has coordinates out of range", domain.ErrInvalidRequest, i)
			}
			points = append(points, p)
		case w.Name != "":
			if catalog == nil {
				c, err := uc.dataset.Catalog()
				if err != nil {
					return nil, fmt.Errorf("load destinations: %w", err)
				}
				catalog = c
			}
			rec, ok := catalog.ByName(w.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", domain.ErrDestinationNotFound, w.Name)
			}
			points = append(points, rec.Point())
		default:
			return nil, fmt.Errorf("%w: destination %d needs a name or lat/lon", domain.ErrInvalidRequest, i)
		}
	}
	return points, nil
}
