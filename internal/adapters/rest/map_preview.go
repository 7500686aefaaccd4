package rest

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"search-service/internal/contextkeys"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

const (
	defaultPreviewZoom = 14
	minPreviewZoom     = 3
	maxPreviewZoom     = 19
	tileProxyPath      = "/api/v1/map/tile/{z}/{x}/{y}"
)

// The page loads tiles through the local proxy so the API key never
// reaches the browser.
var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Map Preview</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" crossorigin="" />
  <style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js" crossorigin=""></script>
<script>
  const lat = {{.Lat}};
  const lon = {{.Lon}};
  const zoom = {{.Zoom}};
  const map = L.map('map').setView([lat, lon], zoom);
  L.tileLayer({{.TileURL}}, {
    maxZoom: 19,
    tileSize: 256,
    zoomOffset: 0,
    attribution: '&copy; Gebeta Maps'
  }).addTo(map);
  L.marker([lat, lon]).addTo(map);
</script>
</body>
</html>
`))

type previewData struct {
	Lat     float64
	Lon     float64
	Zoom    int
	TileURL string
}

// PreviewHandler renders a small Leaflet page centred on a point.
type PreviewHandler struct {
	minifier *minify.M
}

func NewPreviewHandler() *PreviewHandler {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	return &PreviewHandler{minifier: m}
}

// Preview handles GET /map/preview?lat&lon&zoom.
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	lat, errLat := queryFloat(r, "lat")
	lon, errLon := queryFloat(r, "lon")
	if errLat != nil || errLon != nil || lat == nil || lon == nil {
		WriteJSONError(w, http.StatusUnprocessableEntity, "lat and lon are required numbers")
		return
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		WriteJSONError(w, http.StatusUnprocessableEntity, "lat/lon out of range")
		return
	}

	zoom := defaultPreviewZoom
	if raw := r.URL.Query().Get("zoom"); raw != "" {
		z, err := strconv.Atoi(raw)
		if err != nil || z < minPreviewZoom || z > maxPreviewZoom {
			WriteJSONError(w, http.StatusUnprocessableEntity, "zoom must be between 3 and 19")
			return
		}
		zoom = z
	}

	var page bytes.Buffer
	if err := previewTemplate.Execute(&page, previewData{Lat: *lat, Lon: *lon, Zoom: zoom, TileURL: tileProxyPath}); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Failed to render map preview", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to render preview")
		return
	}

	body, err := h.minifier.Bytes("text/html", page.Bytes())
	if err != nil {
		// the unminified page is still valid
		body = page.Bytes()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
