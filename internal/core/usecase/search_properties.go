package usecase

import (
	"context"
	"fmt"

	"search-service/internal/constants"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

type SearchPropertiesUseCase struct {
	repo    port.PropertyRepositoryPort
	routing port.RoutingGatewayPort
	view    cachedListingView
}

func NewSearchPropertiesUseCase(
	repo port.PropertyRepositoryPort,
	cache port.CacheStorePort,
	routing port.RoutingGatewayPort,
	contacts port.ContactProviderPort,
	links MapLinkBuilder,
) *SearchPropertiesUseCase {
	return &SearchPropertiesUseCase{
		repo:    repo,
		routing: routing,
		view: cachedListingView{
			cache:    cache,
			enricher: listingEnricher{links: links, contacts: contacts},
			ttl:      constants.SearchResultTTL,
		},
	}
}

func (uc *SearchPropertiesUseCase) Execute(ctx context.Context, filter domain.SearchFilter) ([]domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SearchProperties",
		"location": filter.Location,
		"sort_by":  filter.SortBy,
	})
	ucLogger.Info("Use case started", nil)

	listings, err := uc.view.load(ctx, filter.CacheKey(), func(ctx context.Context) ([]domain.Listing, error) {
		if !filter.DistanceScoped() {
			return uc.repo.Search(ctx, filter, nil)
		}
		origin, err := uc.routing.Geocode(ctx, filter.Location)
		if err != nil {
			return nil, fmt.Errorf("resolve search origin: %w", err)
		}
		ucLogger.Debug("Search origin resolved", port.Fields{"origin": origin.String()})
		return uc.repo.Search(ctx, filter, &origin)
	})
	if err != nil {
		ucLogger.Error("Search failed", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(listings)})
	return listings, nil
}
