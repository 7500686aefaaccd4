package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// DestinationRecord is one row of the static route dataset.
type DestinationRecord struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	DestLat     float64 `json:"dest_lat"`
	DestLon     float64 `json:"dest_lon"`
	Kilometer   float64 `json:"kilometer"`
	Price       float64 `json:"price"`
}

// Point returns the destination coordinate.
func (d DestinationRecord) Point() GeoPoint {
	return GeoPoint{Lat: d.DestLat, Lon: d.DestLon}
}

// DestinationCatalog is the immutable, loaded dataset.
type DestinationCatalog struct {
	records []DestinationRecord
	byName  map[string]int
}

// NewDestinationCatalog copies records. When two rows share a destination
// name the first one wins name lookups.
func NewDestinationCatalog(records []DestinationRecord) *DestinationCatalog {
	c := &DestinationCatalog{
		records: append([]DestinationRecord(nil), records...),
		byName:  make(map[string]int, len(records)),
	}
	for i, r := range c.records {
		key := foldName(r.Destination)
		if _, exists := c.byName[key]; !exists {
			c.byName[key] = i
		}
	}
	return c
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Len returns the number of records.
func (c *DestinationCatalog) Len() int { return len(c.records) }

// At returns the record at index i in dataset order.
func (c *DestinationCatalog) At(i int) DestinationRecord { return c.records[i] }

// Records returns a copy of all records in dataset order.
func (c *DestinationCatalog) Records() []DestinationRecord {
	return append([]DestinationRecord(nil), c.records...)
}

// ByName looks a destination up case-insensitively.
func (c *DestinationCatalog) ByName(name string) (DestinationRecord, bool) {
	i, ok := c.byName[foldName(name)]
	if !ok {
		return DestinationRecord{}, false
	}
	return c.records[i], true
}

// Where a ranked distance came from.
const (
	DistanceSourceMatrix    = "matrix"
	DistanceSourceHaversine = "haversine"
)

// RankedDestination is a dataset row ranked against an origin.
type RankedDestination struct {
	DestinationRecord
	DistanceKm         float64 `json:"distance_km"`
	StraightDistanceKm float64 `json:"straight_distance_km"`
	DistanceSource     string  `json:"distance_source"`
}

// RouteWaypoint names a destination by dataset name or by coordinates.
type RouteWaypoint struct {
	Name string
	Lat  *float64
	Lon  *float64
}
