package usecase

import (
	"context"
	"fmt"

	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

type SaveSearchUseCase struct {
	repo      port.SavedSearchRepositoryPort
	publisher port.SavedSearchEventPublisherPort
}

func NewSaveSearchUseCase(repo port.SavedSearchRepositoryPort, publisher port.SavedSearchEventPublisherPort) *SaveSearchUseCase {
	return &SaveSearchUseCase{repo: repo, publisher: publisher}
}

func (uc *SaveSearchUseCase) Execute(ctx context.Context, search domain.SavedSearch) (int64, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SaveSearch",
		"user_id":  search.UserID,
	})
	ucLogger.Info("Use case started", nil)

	if search.UserID == "" {
		return 0, fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	if search.MinPrice != nil && search.MaxPrice != nil && *search.MinPrice > *search.MaxPrice {
		return 0, fmt.Errorf("%w: min_price cannot be greater than max_price", domain.ErrInvalidFilter)
	}
	search.Amenities = domain.NormalizeAmenities(search.Amenities)

	id, err := uc.repo.Create(ctx, &search)
	if err != nil {
		ucLogger.Error("Failed to store saved search", err, nil)
		return 0, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	search.ID = id

	// the row is committed; a lost event is logged, not returned
	if uc.publisher != nil {
		if err := uc.publisher.PublishSavedSearchCreated(ctx, search); err != nil {
			ucLogger.Warn("Failed to publish SavedSearchCreated event", port.Fields{
				"saved_search_id": id,
				"error":           err.Error(),
			})
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"saved_search_id": id})
	return id, nil
}
