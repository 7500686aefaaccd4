package usecase

import (
	"context"

	"search-service/internal/constants"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

// ListApprovedPropertiesUseCase serves every approved listing through the
// same cache contract as searches, under a single key.
type ListApprovedPropertiesUseCase struct {
	repo port.PropertyRepositoryPort
	view cachedListingView
}

func NewListApprovedPropertiesUseCase(
	repo port.PropertyRepositoryPort,
	cache port.CacheStorePort,
	contacts port.ContactProviderPort,
	links MapLinkBuilder,
) *ListApprovedPropertiesUseCase {
	return &ListApprovedPropertiesUseCase{
		repo: repo,
		view: cachedListingView{
			cache:    cache,
			enricher: listingEnricher{links: links, contacts: contacts},
			ttl:      constants.SearchResultTTL,
		},
	}
}

func (uc *ListApprovedPropertiesUseCase) Execute(ctx context.Context) ([]domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ListApprovedProperties"})
	ucLogger.Info("Use case started", nil)

	listings, err := uc.view.load(ctx, constants.AllApprovedCacheKey, uc.repo.ListApproved)
	if err != nil {
		ucLogger.Error("Listing approved properties failed", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(listings)})
	return listings, nil
}
