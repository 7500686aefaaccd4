package gebeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"search-service/internal/contextkeys"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
	"strconv"
	"strings"
	"time"
)

const maxBodyBytes = 8 << 20

// Config holds the Gebeta Maps endpoints and credentials.
type Config struct {
	APIKey     string
	RouteURL   string
	MatrixURL  string
	GeocodeURL string
	TileURL    string
	Timeout    time.Duration
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gebeta %s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// ErrNoResults is returned when geocoding finds nothing.
var ErrNoResults = errors.New("gebeta geocode returned no results")

// Client talks to the Gebeta HTTP API. It does no caching or retrying.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

func (c *Client) Route(ctx context.Context, origin domain.GeoPoint, waypoints []domain.GeoPoint) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("json", domain.FormatCoordList(waypoints))
	q.Set("origin", origin.String())
	q.Set("apiKey", c.cfg.APIKey)
	return c.getJSON(ctx, "onm", c.cfg.RouteURL+"?"+q.Encode(), nil)
}

func (c *Client) Matrix(ctx context.Context, coords []domain.GeoPoint) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("json", domain.FormatCoordList(coords))
	q.Set("apiKey", c.cfg.APIKey)
	return c.getJSON(ctx, "matrix", c.cfg.MatrixURL+"?"+q.Encode(), nil)
}

// geocodeHit accepts coordinates as numbers or numeric strings.
type geocodeHit struct {
	Lat json.Number `json:"lat"`
	Lon json.Number `json:"lon"`
}

func (c *Client) Geocode(ctx context.Context, query string) (domain.GeoPoint, error) {
	q := url.Values{}
	q.Set("query", query)
	header := http.Header{}
	header.Set("X-Gebeta-API-Key", c.cfg.APIKey)

	body, err := c.getJSON(ctx, "geocode", c.cfg.GeocodeURL+"?"+q.Encode(), header)
	if err != nil {
		return domain.GeoPoint{}, err
	}

	var hits []geocodeHit
	if err := json.Unmarshal(body, &hits); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(hits) == 0 {
		return domain.GeoPoint{}, ErrNoResults
	}

	lat, errLat := strconv.ParseFloat(hits[0].Lat.String(), 64)
	lon, errLon := strconv.ParseFloat(hits[0].Lon.String(), 64)
	if err := errors.Join(errLat, errLon); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode result has invalid coordinates: %w", err)
	}
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	if !p.Valid() {
		return domain.GeoPoint{}, fmt.Errorf("geocode result out of range: %s", p)
	}
	return p, nil
}

func (c *Client) Tile(ctx context.Context, z, x, y int) ([]byte, error) {
	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	u := fmt.Sprintf("%s/%d/%d/%d.png?%s", strings.TrimRight(c.cfg.TileURL, "/"), z, x, y, q.Encode())
	return c.get(ctx, "tile", u, nil)
}

func (c *Client) getJSON(ctx context.Context, endpoint, u string, header http.Header) (json.RawMessage, error) {
	body, err := c.get(ctx, endpoint, u, header)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("gebeta %s returned invalid JSON", endpoint)
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, endpoint, u string, header http.Header) ([]byte, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GebetaClient",
		"endpoint":  endpoint,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gebeta request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientLogger.Warn("Gebeta request failed", port.Fields{"error": err.Error()})
		return nil, fmt.Errorf("gebeta %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read gebeta %s response: %w", endpoint, err)
	}

	clientLogger.Debug("Gebeta response received", port.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
