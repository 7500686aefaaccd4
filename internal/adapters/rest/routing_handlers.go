package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
	"search-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

const defaultNearestLimit = 5

type RoutingHandler struct {
	routeUC   usecases_port.ComputeRouteUseCasePort
	nearestUC usecases_port.NearestDestinationsUseCasePort
	geocodeUC usecases_port.GeocodeUseCasePort
	tileUC    usecases_port.MapTileUseCasePort
}

func NewRoutingHandler(
	routeUC usecases_port.ComputeRouteUseCasePort,
	nearestUC usecases_port.NearestDestinationsUseCasePort,
	geocodeUC usecases_port.GeocodeUseCasePort,
	tileUC usecases_port.MapTileUseCasePort,
) *RoutingHandler {
	return &RoutingHandler{
		routeUC:   routeUC,
		nearestUC: nearestUC,
		geocodeUC: geocodeUC,
		tileUC:    tileUC,
	}
}

// Route handles POST /onm/route and relays the gateway JSON unchanged.
func (h *RoutingHandler) Route(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	origin, ok := originOf(req.OriginLat, req.OriginLon)
	if !ok {
		WriteJSONError(w, http.StatusUnprocessableEntity, "origin_lat and origin_lon are required")
		return
	}

	waypoints := make([]domain.RouteWaypoint, len(req.Destinations))
	for i, d := range req.Destinations {
		waypoints[i] = domain.RouteWaypoint{Name: d.Name, Lat: d.Lat, Lon: d.Lon}
	}

	body, err := h.routeUC.Execute(r.Context(), origin, waypoints)
	if err != nil {
		writeUseCaseError(w, err, http.StatusBadGateway, "Failed to compute route via Gebeta ONM")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Nearest handles POST /onm/nearest.
func (h *RoutingHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	var req NearestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	origin, ok := originOf(req.OriginLat, req.OriginLon)
	if !ok {
		WriteJSONError(w, http.StatusUnprocessableEntity, "origin_lat and origin_lon are required")
		return
	}
	limit := defaultNearestLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	results, err := h.nearestUC.Execute(r.Context(), origin, limit)
	if err != nil {
		writeUseCaseError(w, err, http.StatusInternalServerError, "Failed to rank destinations")
		return
	}
	RespondWithJSON(w, http.StatusOK, NearestResponse{
		Origin:  [2]float64{origin.Lat, origin.Lon},
		Results: results,
	})
}

// Geocode handles GET /geocode/{query}. Gateway failures already resolve
// to the fallback point.
func (h *RoutingHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	point, err := h.geocodeUC.Execute(r.Context(), query)
	if err != nil {
		writeUseCaseError(w, err, http.StatusBadGateway, "Geocoding failed unexpectedly")
		return
	}
	contextkeys.LoggerFromContext(r.Context()).Info("Geocode successful", port.Fields{
		"query":  query,
		"result": point.String(),
	})
	RespondWithJSON(w, http.StatusOK, point)
}

// Tile handles GET /map/tile/{z}/{x}/{y}.
func (h *RoutingHandler) Tile(w http.ResponseWriter, r *http.Request) {
	z, errZ := strconv.Atoi(chi.URLParam(r, "z"))
	x, errX := strconv.Atoi(chi.URLParam(r, "x"))
	y, errY := strconv.Atoi(chi.URLParam(r, "y"))
	if errZ != nil || errX != nil || errY != nil {
		WriteJSONError(w, http.StatusBadRequest, "Tile coordinates must be integers")
		return
	}

	tile, err := h.tileUC.Execute(r.Context(), z, x, y)
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Map tile fetch failed", err, port.Fields{"z": z, "x": x, "y": y})
		writeUseCaseError(w, err, http.StatusInternalServerError, "Failed to fetch map tile")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(tile)
}
