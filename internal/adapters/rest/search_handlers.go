package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
	"search-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

type SearchHandler struct {
	searchUC      usecases_port.SearchPropertiesUseCasePort
	listApproved  usecases_port.ListApprovedPropertiesUseCasePort
	getPropertyUC usecases_port.GetPropertyUseCasePort
	saveSearchUC  usecases_port.SaveSearchUseCasePort
	clearCacheUC  usecases_port.ClearCacheUseCasePort
}

func NewSearchHandler(
	searchUC usecases_port.SearchPropertiesUseCasePort,
	listApproved usecases_port.ListApprovedPropertiesUseCasePort,
	getPropertyUC usecases_port.GetPropertyUseCasePort,
	saveSearchUC usecases_port.SaveSearchUseCasePort,
	clearCacheUC usecases_port.ClearCacheUseCasePort,
) *SearchHandler {
	return &SearchHandler{
		searchUC:      searchUC,
		listApproved:  listApproved,
		getPropertyUC: getPropertyUC,
		saveSearchUC:  saveSearchUC,
		clearCacheUC:  clearCacheUC,
	}
}

// Search handles GET /search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	in := domain.SearchFilterInput{
		Location:  strings.TrimSpace(r.URL.Query().Get("location")),
		HouseType: strings.TrimSpace(r.URL.Query().Get("house_type")),
		Amenities: queryList(r, "amenities"),
		SortBy:    strings.TrimSpace(r.URL.Query().Get("sort_by")),
	}

	var err error
	if in.MinPrice, err = queryFloat(r, "min_price"); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid min_price")
		return
	}
	if in.MaxPrice, err = queryFloat(r, "max_price"); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid max_price")
		return
	}
	if in.MaxDistanceKm, err = queryFloat(r, "max_distance_km"); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid max_distance_km")
		return
	}
	if in.Bedrooms, err = queryInt(r, "bedrooms"); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid bedrooms")
		return
	}
	if in.UseDistance, err = queryBool(r, "use_distance"); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid use_distance")
		return
	}

	filter, err := domain.NewSearchFilter(in)
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Warn("Rejected search filter", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err, http.StatusInternalServerError, "Search failed")
		return
	}

	results, err := h.searchUC.Execute(r.Context(), filter)
	if err != nil {
		writeUseCaseError(w, err, http.StatusInternalServerError, "Search failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, results)
}

// ListApproved handles GET /properties/approved.
func (h *SearchHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	results, err := h.listApproved.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, err, http.StatusInternalServerError, "Failed to retrieve approved properties")
		return
	}
	RespondWithJSON(w, http.StatusOK, results)
}

// GetProperty handles GET /property/{id}.
func (h *SearchHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.getPropertyUC.Execute(r.Context(), id)
	if err != nil {
		if errorIsNotFound(err) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		writeUseCaseError(w, err, http.StatusInternalServerError, "Failed to fetch property")
		return
	}
	RespondWithJSON(w, http.StatusOK, listing)
}

// SaveSearch handles POST /saved-searches.
func (h *SearchHandler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	identity, ok := contextkeys.IdentityFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SavedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.saveSearchUC.Execute(r.Context(), req.toDomain(identity.ID))
	if err != nil {
		writeUseCaseError(w, err, http.StatusInternalServerError, "Failed to save search")
		return
	}
	RespondWithJSON(w, http.StatusOK, SavedSearchResponse{ID: id, Message: "Search saved"})
}

// ClearCache handles POST /cache/clear.
func (h *SearchHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.clearCacheUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, err, http.StatusInternalServerError, "Failed to clear cache")
		return
	}
	RespondWithJSON(w, http.StatusOK, ClearCacheResponse{Deleted: deleted})
}
