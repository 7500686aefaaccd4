package rest

import (
	"errors"
	"net/http"
	"strings"

	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
)

type AuthMiddleware struct {
	verifier port.IdentityVerifierPort
}

func NewAuthMiddleware(verifier port.IdentityVerifierPort) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate verifies the bearer token with the user service and stores
// the caller in the request context.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || strings.TrimSpace(token) == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		identity, err := am.verifier.Verify(r.Context(), token)
		if err != nil {
			logger := contextkeys.LoggerFromContext(r.Context())
			if errors.Is(err, domain.ErrIdentityUnavailable) {
				logger.Error("User management service is unavailable", err, nil)
				WriteJSONError(w, http.StatusServiceUnavailable, "User management service is unavailable")
				return
			}
			logger.Warn("Token verification failed", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := contextkeys.ContextWithIdentity(r.Context(), identity)
		userLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"user_id": identity.ID})
		ctx = contextkeys.ContextWithLogger(ctx, userLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects callers whose role differs from role. It must run
// after Authenticate.
func (am *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := contextkeys.IdentityFromContext(r.Context())
			if !ok {
				WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !identity.HasRole(role) {
				WriteJSONError(w, http.StatusForbidden, "Only "+role+" users can access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
