package usecase

import (
	"context"
	"fmt"
	"strings"

	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

type GeocodeUseCase struct {
	routing port.RoutingGatewayPort
}

func NewGeocodeUseCase(routing port.RoutingGatewayPort) *GeocodeUseCase {
	return &GeocodeUseCase{routing: routing}
}

func (uc *GeocodeUseCase) Execute(ctx context.Context, query string) (domain.GeoPoint, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.GeoPoint{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	return uc.routing.Geocode(ctx, query)
}
