package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPropertyRepository reads listings from the properties table.
type PostgresPropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPropertyRepository(pool *pgxpool.Pool) (*PostgresPropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresPropertyRepository{pool: pool}, nil
}

func (r *PostgresPropertyRepository) Search(ctx context.Context, filter domain.SearchFilter, origin *domain.GeoPoint) ([]domain.Listing, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "Search",
	})

	query, args, err := buildSearchQuery(filter, origin)
	if err != nil {
		return nil, err
	}
	repoLogger.Debug("Executing search query", port.Fields{"args_count": len(args), "distance_scoped": filter.DistanceScoped()})

	listings, err := r.queryListings(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Search query failed", err, port.Fields{"query": query})
		return nil, err
	}
	return listings, nil
}

func (r *PostgresPropertyRepository) ListApproved(ctx context.Context) ([]domain.Listing, error) {
	query := buildApprovedQuery()
	listings, err := r.queryListings(ctx, query)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Approved listing query failed", err, port.Fields{
			"component": "PostgresPropertyRepository",
			"method":    "ListApproved",
		})
		return nil, err
	}
	return listings, nil
}

func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id string, origin domain.GeoPoint) (*domain.Listing, error) {
	query, args := buildByIDQuery(id, origin)

	listing, err := scanListing(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
		}
		contextkeys.LoggerFromContext(ctx).Error("Property lookup failed", err, port.Fields{
			"component":   "PostgresPropertyRepository",
			"method":      "GetByID",
			"property_id": id,
		})
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}
	return listing, nil
}

func (r *PostgresPropertyRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresPropertyRepository) queryListings(ctx context.Context, query string, args ...interface{}) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		listings = append(listings, *listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during property rows iteration: %w", err)
	}
	return listings, nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var (
		l         domain.Listing
		ownerID   *string
		bedrooms  *int32
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&l.ID, &ownerID, &l.Title, &l.Description, &l.Location,
		&l.Price, &l.HouseType, &bedrooms,
		&l.Amenities, &l.Photos, &l.Status,
		&l.Lat, &l.Lon, &createdAt, &updatedAt,
		&l.DistanceKm,
	)
	if err != nil {
		return nil, err
	}
	if ownerID != nil {
		l.OwnerID = *ownerID
	}
	if bedrooms != nil {
		b := int(*bedrooms)
		l.Bedrooms = &b
	}
	l.CreatedAt = &createdAt
	l.UpdatedAt = &updatedAt
	if l.Amenities == nil {
		l.Amenities = []string{}
	}
	return &l, nil
}
