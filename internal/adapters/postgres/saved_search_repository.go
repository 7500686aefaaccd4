package postgres_adapter

import (
	"context"
	"fmt"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSavedSearchRepository writes to the "SavedSearches" table.
type PostgresSavedSearchRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSavedSearchRepository(pool *pgxpool.Pool) (*PostgresSavedSearchRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresSavedSearchRepository{pool: pool}, nil
}

func (r *PostgresSavedSearchRepository) Create(ctx context.Context, s *domain.SavedSearch) (int64, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresSavedSearchRepository",
		"method":    "Create",
		"user_id":   s.UserID,
	})

	query := `INSERT INTO "SavedSearches"
		(user_id, location, min_price, max_price, house_type, amenities, bedrooms, max_distance_km)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		s.UserID, s.Location, s.MinPrice, s.MaxPrice, s.HouseType, s.Amenities, s.Bedrooms, s.MaxDistanceKm,
	).Scan(&id, &s.CreatedAt)
	if err != nil {
		repoLogger.Error("Failed to insert saved search", err, port.Fields{"query": query})
		return 0, fmt.Errorf("failed to insert saved search: %w", err)
	}
	s.ID = id

	repoLogger.Debug("Saved search stored", port.Fields{"saved_search_id": id})
	return id, nil
}
