package rabbitmq

import "time"

// SavedSearchCreatedEvent is the envelope published when a tenant saves a search.
type SavedSearchCreatedEvent struct {
	EventID      string                 `json:"event_id"`
	EventType    string                 `json:"event_type"`
	EventVersion string                 `json:"event_version"`
	OccurredAt   time.Time              `json:"occurred_at"`
	TraceID      string                 `json:"trace_id,omitempty"`
	Data         SavedSearchCreatedData `json:"data"`
}

type SavedSearchCreatedData struct {
	SavedSearchID int64    `json:"saved_search_id"`
	UserID        string   `json:"user_id"`
	Location      *string  `json:"location"`
	MinPrice      *float64 `json:"min_price"`
	MaxPrice      *float64 `json:"max_price"`
	HouseType     *string  `json:"house_type"`
	Amenities     []string `json:"amenities"`
	Bedrooms      *int     `json:"bedrooms"`
	MaxDistanceKm *float64 `json:"max_distance_km"`
}
