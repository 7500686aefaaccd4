package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"strings"
	"time"
)

// verifyResponse is the user-management /auth/verify payload. id may come
// as a number or a string.
type verifyResponse struct {
	ID    json.RawMessage `json:"id"`
	Email string          `json:"email"`
	Role  string          `json:"role"`
}

// Client verifies bearer tokens against the user-management service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Verify implements port.IdentityVerifierPort.
func (c *Client) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/verify", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(contextkeys.TraceHeader, traceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrIdentityUnavailable, resp.StatusCode, string(bodyBytes))
	default:
		// any 4xx means the token was not accepted
		return nil, fmt.Errorf("%w: identity service returned %d", domain.ErrUnauthenticated, resp.StatusCode)
	}

	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode verify response: %v", domain.ErrIdentityUnavailable, err)
	}

	id := rawToString(payload.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: verify response has no user id", domain.ErrUnauthenticated)
	}
	return &domain.Identity{ID: id, Email: payload.Email, Role: payload.Role}, nil
}

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
