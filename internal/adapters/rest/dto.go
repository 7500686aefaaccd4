package rest

import "search-service/internal/core/domain"

// SavedSearchRequest is the body of POST /saved-searches.
type SavedSearchRequest struct {
	Location      *string  `json:"location"`
	MinPrice      *float64 `json:"min_price"`
	MaxPrice      *float64 `json:"max_price"`
	HouseType     *string  `json:"house_type"`
	Amenities     []string `json:"amenities"`
	Bedrooms      *int     `json:"bedrooms"`
	MaxDistanceKm *float64 `json:"max_distance_km"`
}

type SavedSearchResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type DestinationRef struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

// RouteRequest is the body of POST /onm/route.
type RouteRequest struct {
	OriginLat    *float64         `json:"origin_lat"`
	OriginLon    *float64         `json:"origin_lon"`
	Destinations []DestinationRef `json:"destinations"`
}

// NearestRequest is the body of POST /onm/nearest.
type NearestRequest struct {
	OriginLat *float64 `json:"origin_lat"`
	OriginLon *float64 `json:"origin_lon"`
	Limit     *int     `json:"limit"`
}

type NearestResponse struct {
	Origin  [2]float64                 `json:"origin"`
	Results []domain.RankedDestination `json:"results"`
}

type ClearCacheResponse struct {
	Deleted int64 `json:"deleted"`
}

func (r SavedSearchRequest) toDomain(userID string) domain.SavedSearch {
	return domain.SavedSearch{
		UserID:        userID,
		Location:      r.Location,
		MinPrice:      r.MinPrice,
		MaxPrice:      r.MaxPrice,
		HouseType:     r.HouseType,
		Amenities:     r.Amenities,
		Bedrooms:      r.Bedrooms,
		MaxDistanceKm: r.MaxDistanceKm,
	}
}

func originOf(lat, lon *float64) (domain.GeoPoint, bool) {
	if lat == nil || lon == nil {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lat: *lat, Lon: *lon}, true
}
