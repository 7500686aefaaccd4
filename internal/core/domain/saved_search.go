package domain

import "time"

// SavedSearch is a filter snapshot stored for a tenant.
type SavedSearch struct {
	ID            int64
	UserID        string
	Location      *string
	MinPrice      *float64
	MaxPrice      *float64
	HouseType     *string
	Amenities     []string
	Bedrooms      *int
	MaxDistanceKm *float64
	CreatedAt     time.Time
}
