package usecase

import (
	"net/url"
	"strconv"
	"strings"

	"search-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

const (
	mapZoom          = 14
	mapSize          = "600x300"
	geohashPrecision = 7
	previewPath      = "/api/v1/map/preview"
)

// MapLinkBuilder derives map_url, preview_url and geohash from listing coordinates.
type MapLinkBuilder struct {
	StaticMapURL string
	APIKey       string
}

// StaticMap returns the static map image link for p.
func (b MapLinkBuilder) StaticMap(p domain.GeoPoint) string {
	return strings.TrimRight(b.StaticMapURL, "/") +
		"?center=" + p.String() +
		"&zoom=" + strconv.Itoa(mapZoom) + "&size=" + mapSize +
		"&apiKey=" + url.QueryEscape(b.APIKey)
}

// Preview returns the relative link to the embedded Leaflet preview.
func (b MapLinkBuilder) Preview(p domain.GeoPoint) string {
	return previewPath + "?lat=" + domain.FormatCoord(p.Lat) + "&lon=" + domain.FormatCoord(p.Lon) + "&zoom=" + strconv.Itoa(mapZoom)
}

// Apply brings the derived fields of l in line with its coordinates and
// reports whether anything changed. Applying twice changes nothing.
func (b MapLinkBuilder) Apply(l *domain.Listing) bool {
	p, ok := l.Coordinates()
	if !ok {
		changed := l.MapURL != nil || l.PreviewURL != nil || l.Geohash != nil
		l.MapURL, l.PreviewURL, l.Geohash = nil, nil, nil
		return changed
	}

	changed := false
	if want := b.StaticMap(p); l.MapURL == nil || *l.MapURL != want {
		l.MapURL = &want
		changed = true
	}
	// an existing preview link is kept as is
	if l.PreviewURL == nil {
		preview := b.Preview(p)
		l.PreviewURL = &preview
		changed = true
	}
	if gh := geohash.EncodeWithPrecision(p.Lat, p.Lon, geohashPrecision); l.Geohash == nil || *l.Geohash != gh {
		l.Geohash = &gh
		changed = true
	}
	return changed
}
