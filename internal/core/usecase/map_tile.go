package usecase

import (
	"context"
	"fmt"

	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

const maxTileZoom = 22

type MapTileUseCase struct {
	routing port.RoutingGatewayPort
}

func NewMapTileUseCase(routing port.RoutingGatewayPort) *MapTileUseCase {
	return &MapTileUseCase{routing: routing}
}

func (uc *MapTileUseCase) Execute(ctx context.Context, z, x, y int) ([]byte, error) {
	if z < 0 || z > maxTileZoom {
		return nil, fmt.Errorf("%w: zoom %d out of range", domain.ErrInvalidRequest, z)
	}
	n := 1 << uint(z)
	if x < 0 || y < 0 || x >= n || y >= n {
		return nil, fmt.Errorf("%w: tile %d/%d/%d does not exist", domain.ErrInvalidRequest, z, x, y)
	}
	return uc.routing.Tile(ctx, z, x, y)
}
