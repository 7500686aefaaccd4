package usecases_port

import (
	"context"
	"search-service/internal/core/domain"
)

type SearchPropertiesUseCasePort interface {
	Execute(ctx context.Context, filter domain.SearchFilter) ([]domain.Listing, error)
}

type ListApprovedPropertiesUseCasePort interface {
	Execute(ctx context.Context) ([]domain.Listing, error)
}

type GetPropertyUseCasePort interface {
	Execute(ctx context.Context, id string) (*domain.Listing, error)
}

type SaveSearchUseCasePort interface {
	Execute(ctx context.Context, search domain.SavedSearch) (int64, error)
}

// ClearCacheUseCasePort returns the number of removed entries.
type ClearCacheUseCasePort interface {
	Execute(ctx context.Context) (int64, error)
}
