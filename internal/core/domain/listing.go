package domain

import "time"

// Listing statuses. Only approved listings are ever searchable.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// OwnerContact is the public contact data of a listing owner.
type OwnerContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Listing is a property row plus the fields derived for presentation.
// The JSON form is also the cache format.
type Listing struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Price       float64    `json:"price"`
	HouseType   string     `json:"house_type"`
	Bedrooms    *int       `json:"bedrooms,omitempty"`
	Amenities   []string   `json:"amenities"`
	Photos      []string   `json:"photos,omitempty"`
	Status      string     `json:"status,omitempty"`
	Lat         *float64   `json:"lat"`
	Lon         *float64   `json:"lon"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`

	DistanceKm   float64       `json:"distance_km"`
	MapURL       *string       `json:"map_url"`
	PreviewURL   *string       `json:"preview_url"`
	Geohash      *string       `json:"geohash,omitempty"`
	OwnerContact *OwnerContact `json:"owner_contact"`
}

// Coordinates returns the listing position when both parts are present.
func (l *Listing) Coordinates() (GeoPoint, bool) {
	if l.Lat == nil || l.Lon == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: *l.Lat, Lon: *l.Lon}, true
}
