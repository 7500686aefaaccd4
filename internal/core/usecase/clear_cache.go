package usecase

import (
	"context"
	"fmt"

	"search-service/internal/constants"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

// ClearCacheUseCase drops every cached search result and the approved list.
// Routing responses are left to expire on their own.
type ClearCacheUseCase struct {
	cache port.CacheStorePort
}

func NewClearCacheUseCase(cache port.CacheStorePort) *ClearCacheUseCase {
	return &ClearCacheUseCase{cache: cache}
}

func (uc *ClearCacheUseCase) Execute(ctx context.Context) (int64, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ClearCache"})

	keys, err := uc.cache.KeysByPrefix(ctx, domain.SearchKeyPrefix)
	if err != nil {
		ucLogger.Error("Failed to list search cache keys", err, nil)
		return 0, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	keys = append(keys, constants.AllApprovedCacheKey)

	deleted, err := uc.cache.Delete(ctx, keys...)
	if err != nil {
		ucLogger.Error("Failed to delete cache keys", err, nil)
		return 0, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	ucLogger.Info("Search cache cleared", port.Fields{"deleted": deleted})
	return deleted, nil
}
