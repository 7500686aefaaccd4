package port

import (
	"context"
	"encoding/json"
	"search-service/internal/core/domain"
)

// ContactProviderPort looks up listing owners in the user service.
type ContactProviderPort interface {
	GetOwnerContact(ctx context.Context, ownerID string) (*domain.OwnerContact, error)
}

// IdentityVerifierPort turns a bearer token into a verified caller.
// It returns domain.ErrUnauthenticated for rejected tokens and
// domain.ErrIdentityUnavailable when the service cannot answer.
type IdentityVerifierPort interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

// RoutingGatewayPort is the third-party routing and map API.
type RoutingGatewayPort interface {
	Route(ctx context.Context, origin domain.GeoPoint, waypoints []domain.GeoPoint) (json.RawMessage, error)
	Matrix(ctx context.Context, coords []domain.GeoPoint) (json.RawMessage, error)
	Geocode(ctx context.Context, query string) (domain.GeoPoint, error)
	Tile(ctx context.Context, z, x, y int) ([]byte, error)
}

// DestinationDatasetPort provides the loaded route dataset.
type DestinationDatasetPort interface {
	Catalog() (*domain.DestinationCatalog, error)
}

// SavedSearchEventPublisherPort announces new saved searches.
type SavedSearchEventPublisherPort interface {
	PublishSavedSearchCreated(ctx context.Context, search domain.SavedSearch) error
}
