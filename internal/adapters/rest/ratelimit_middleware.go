package rest

import (
	"net/http"
	"strconv"
	"time"

	"search-service/internal/constants"
	"search-service/internal/contextkeys"
	"search-service/internal/core/port"
)

// RateLimit is a fixed window limit for one route group.
type RateLimit struct {
	Group  string
	Limit  int64
	Window time.Duration
}

// RateLimiter enforces per-client limits with a shared counter store.
type RateLimiter struct {
	counter port.RateCounterPort
}

// NewRateLimiter returns a limiter; a nil counter disables limiting.
func NewRateLimiter(counter port.RateCounterPort) *RateLimiter {
	return &RateLimiter{counter: counter}
}

// Limit returns the middleware for one route group. Counter failures let
// the request through.
func (rl *RateLimiter) Limit(limit RateLimit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl == nil || rl.counter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := constants.RateLimitKeyPrefix + limit.Group + ":" + clientKey(r)

			count, err := rl.counter.Increment(r.Context(), key, limit.Window)
			if err != nil {
				contextkeys.LoggerFromContext(r.Context()).Warn("Rate limiter unavailable, allowing request", port.Fields{
					"group": limit.Group,
					"error": err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}

			if count > limit.Limit {
				w.Header().Set("Retry-After", strconv.Itoa(int(limit.Window.Seconds())))
				WriteJSONError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Route group limits, per client per minute.
var (
	searchLimit   = RateLimit{Group: "search", Limit: 5, Window: time.Minute}
	savedLimit    = RateLimit{Group: "saved-searches", Limit: 5, Window: time.Minute}
	geocodeLimit  = RateLimit{Group: "geocode", Limit: 5, Window: time.Minute}
	propertyLimit = RateLimit{Group: "property", Limit: 10, Window: time.Minute}
	approvedLimit = RateLimit{Group: "approved", Limit: 10, Window: time.Minute}
	onmLimit      = RateLimit{Group: "onm", Limit: 10, Window: time.Minute}
)
