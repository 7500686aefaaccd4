package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within latitude/longitude bounds.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180 &&
		!math.IsNaN(p.Lat) && !math.IsNaN(p.Lon)
}

// HaversineKm returns the great-circle distance between a and b.
func HaversineKm(a, b GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// ParseLatLon reads a "lat,lon" literal such as "8.54,39.27".
func ParseLatLon(s string) (GeoPoint, bool) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return GeoPoint{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return GeoPoint{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return GeoPoint{}, false
	}
	p := GeoPoint{Lat: lat, Lon: lon}
	if !p.Valid() {
		return GeoPoint{}, false
	}
	return p, true
}

// FormatCoord renders a coordinate in shortest round-trip form.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%s,%s", FormatCoord(p.Lat), FormatCoord(p.Lon))
}

// FormatCoordList renders points as [{lat,lon},{lat,lon}], the form the
// routing API expects and the gateway cache keys use.
func FormatCoordList(points []GeoPoint) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = "{" + p.String() + "}"
	}
	return "[" + strings.Join(parts, ",") + "]"
}
