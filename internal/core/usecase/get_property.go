package usecase

import (
	"context"
	"errors"
	"fmt"

	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

type GetPropertyUseCase struct {
	repo     port.PropertyRepositoryPort
	enricher listingEnricher
	origin   domain.GeoPoint
}

// NewGetPropertyUseCase measures distance_km from referenceOrigin.
func NewGetPropertyUseCase(
	repo port.PropertyRepositoryPort,
	contacts port.ContactProviderPort,
	links MapLinkBuilder,
	referenceOrigin domain.GeoPoint,
) *GetPropertyUseCase {
	return &GetPropertyUseCase{
		repo:     repo,
		enricher: listingEnricher{links: links, contacts: contacts},
		origin:   referenceOrigin,
	}
}

func (uc *GetPropertyUseCase) Execute(ctx context.Context, id string) (*domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetProperty",
		"property_id": id,
	})

	if id == "" {
		return nil, fmt.Errorf("%w: property id is required", domain.ErrInvalidRequest)
	}

	listing, err := uc.repo.GetByID(ctx, id, uc.origin)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ucLogger.Info("Property not found", nil)
			return nil, err
		}
		ucLogger.Error("Repository returned an error", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	one := []domain.Listing{*listing}
	uc.enricher.enrich(ctx, one)
	return &one[0], nil
}
