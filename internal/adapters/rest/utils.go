package rest

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
)

// WriteJSONError writes {"error": message} with the given status.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RespondWithJSON writes payload as JSON.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "Failed to marshal JSON response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// writeUseCaseError maps domain errors onto HTTP statuses. Upstream failures
// get upstreamStatus and a generic message; client errors keep their text.
func writeUseCaseError(w http.ResponseWriter, err error, upstreamStatus int, genericMessage string) {
	switch {
	case errors.Is(err, domain.ErrInvalidFilter):
		WriteJSONError(w, http.StatusBadRequest, clientMessage(err, domain.ErrInvalidFilter))
	case errors.Is(err, domain.ErrInvalidRequest):
		WriteJSONError(w, http.StatusUnprocessableEntity, clientMessage(err, domain.ErrInvalidRequest))
	case errors.Is(err, domain.ErrDestinationNotFound):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrUnauthenticated):
		WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrIdentityUnavailable):
		WriteJSONError(w, http.StatusServiceUnavailable, "User management service is unavailable")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		WriteJSONError(w, upstreamStatus, genericMessage)
	default:
		WriteJSONError(w, http.StatusInternalServerError, genericMessage)
	}
}

// clientMessage strips the sentinel prefix so "invalid search filter: min_price
// cannot be greater than max_price" reads as the detail alone.
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if trimmed := strings.TrimPrefix(msg, sentinel.Error()+": "); trimmed != "" {
		return trimmed
	}
	return msg
}

// clientKey identifies the caller for rate limiting: the verified user when
// there is one, the remote address otherwise.
func clientKey(r *http.Request) string {
	if id, ok := contextkeys.IdentityFromContext(r.Context()); ok && id.ID != "" {
		return "user:" + id.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// queryList accepts both ?a=x&a=y and ?a=x,y.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func errorIsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
