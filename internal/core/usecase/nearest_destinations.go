package usecase

import (
	"context"
	"fmt"
	"sort"

	"search-service/internal/constants"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

const MaxNearestLimit = 10

// NearestDestinationsUseCase ranks dataset destinations by distance from an
// origin. Road distances from the matrix API are used for the first window
// of destinations; any matrix problem switches the whole ranking to
// great-circle distance.
type NearestDestinationsUseCase struct {
	dataset port.DestinationDatasetPort
	routing port.RoutingGatewayPort
	units   domain.MatrixUnitPolicy
}

func NewNearestDestinationsUseCase(
	dataset port.DestinationDatasetPort,
	routing port.RoutingGatewayPort,
	units domain.MatrixUnitPolicy,
) *NearestDestinationsUseCase {
	return &NearestDestinationsUseCase{dataset: dataset, routing: routing, units: units}
}

type scored struct {
	record   domain.DestinationRecord
	distance float64
}

func (uc *NearestDestinationsUseCase) Execute(ctx context.Context, origin domain.GeoPoint, limit int) ([]domain.RankedDestination, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "NearestDestinations",
		"origin":   origin.String(),
	})

	if !origin.Valid() {
		return nil, fmt.Errorf("%w: origin coordinates out of range", domain.ErrInvalidRequest)
	}
	limit = clampLimit(limit)

	catalog, err := uc.dataset.Catalog()
	if err != nil {
		ucLogger.Error("Destination dataset unavailable", err, nil)
		return nil, fmt.Errorf("load destinations: %w", err)
	}
	records := catalog.Records()
	if len(records) == 0 {
		return []domain.RankedDestination{}, nil
	}

	ranked, source := uc.rankByMatrix(ctx, ucLogger, origin, records)
	if ranked == nil {
		ranked, source = rankByHaversine(origin, records), domain.DistanceSourceHaversine
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].distance < ranked[j].distance })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]domain.RankedDestination, len(ranked))
	for i, s := range ranked {
		out[i] = domain.RankedDestination{
			DestinationRecord:  s.record,
			DistanceKm:         s.distance,
			StraightDistanceKm: domain.HaversineKm(origin, s.record.Point()),
			DistanceSource:     source,
		}
	}
	ucLogger.Info("Nearest destinations ranked", port.Fields{"source": source, "count": len(out)})
	return out, nil
}

// rankByMatrix returns nil when the matrix cannot be used.
func (uc *NearestDestinationsUseCase) rankByMatrix(
	ctx context.Context,
	logger port.LoggerPort,
	origin domain.GeoPoint,
	records []domain.DestinationRecord,
) ([]scored, string) {
	window := len(records)
	if window > constants.MaxGatewayPoints-1 {
		window = constants.MaxGatewayPoints - 1
	}
	coords := make([]domain.GeoPoint, 0, window+1)
	coords = append(coords, origin)
	for _, r := range records[:window] {
		coords = append(coords, r.Point())
	}

	body, err := uc.routing.Matrix(ctx, coords)
	if err != nil {
		logger.Warn("Matrix unavailable, falling back to haversine", port.Fields{"error": err.Error()})
		return nil, ""
	}
	row, err := domain.ParseMatrixRow(body, uc.units)
	if err != nil {
		logger.Warn("Matrix response unusable, falling back to haversine", port.Fields{"error": err.Error()})
		return nil, ""
	}
	if len(row.Km) < window+1 {
		logger.Warn("Matrix row too short, falling back to haversine", port.Fields{
			"want": window + 1,
			"got":  len(row.Km),
		})
		return nil, ""
	}

	out := make([]scored, window)
	for i := 0; i < window; i++ {
		out[i] = scored{record: records[i], distance: row.Km[i+1]}
	}
	logger.Debug("Matrix distances parsed", port.Fields{"field": row.Field, "units": string(row.Units)})
	return out, domain.DistanceSourceMatrix
}

func rankByHaversine(origin domain.GeoPoint, records []domain.DestinationRecord) []scored {
	out := make([]scored, len(records))
	for i, r := range records {
		out[i] = scored{record: r, distance: domain.HaversineKm(origin, r.Point())}
	}
	return out
}

func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > MaxNearestLimit:
		return MaxNearestLimit
	}
	return limit
}
