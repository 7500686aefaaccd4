package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
	"strings"
	"time"
)

// userResponse covers the field names the user service has used over time.
type userResponse struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	PhoneNumber string `json:"phone_number"`
}

func (u userResponse) toContact() *domain.OwnerContact {
	return &domain.OwnerContact{
		Name:  firstNonEmpty(u.Name, u.FullName, u.Username),
		Email: u.Email,
		Phone: firstNonEmpty(u.Phone, u.PhoneNumber),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Client fetches owner contact data from the user-management service.
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

// GetOwnerContact implements port.ContactProviderPort.
func (c *Client) GetOwnerContact(ctx context.Context, ownerID string) (*domain.OwnerContact, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "UserServiceClient",
		"owner_id":  ownerID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/"+url.PathEscape(ownerID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(contextkeys.TraceHeader, traceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		clientLogger.Debug("User service returned non-OK status", port.Fields{
			"status_code": resp.StatusCode,
			"body":        string(bodyBytes),
		})
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("owner %s: %w", ownerID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return user.toContact(), nil
}
