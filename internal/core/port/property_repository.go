package port

import (
	"context"
	"search-service/internal/core/domain"
)

// PropertyRepositoryPort reads listings from the property store.
type PropertyRepositoryPort interface {
	// Search returns approved listings matching filter. origin is required
	// when filter.DistanceScoped() and ignored otherwise.
	Search(ctx context.Context, filter domain.SearchFilter, origin *domain.GeoPoint) ([]domain.Listing, error)
	ListApproved(ctx context.Context) ([]domain.Listing, error)
	// GetByID returns domain.ErrNotFound when no row matches. Distance is
	// measured from origin.
	GetByID(ctx context.Context, id string, origin domain.GeoPoint) (*domain.Listing, error)
	Ping(ctx context.Context) error
}

// SavedSearchRepositoryPort persists filter snapshots.
type SavedSearchRepositoryPort interface {
	Create(ctx context.Context, search *domain.SavedSearch) (int64, error)
}
