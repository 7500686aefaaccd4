package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"search-service/internal/core/domain"
	"search-service/pkg/retry"
)

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	sets    int
	getErr  error
	setErr  error
	scanErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.data[key] = append([]byte(nil), value...)
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) KeysByPrefix(_ context.Context, prefix string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanErr != nil {
		return nil, c.scanErr
	}
	var keys []string
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (c *fakeCache) Ping(context.Context) error { return c.getErr }

type fakePropertyRepo struct {
	listings    []domain.Listing
	err         error
	searchCalls int
	lastFilter  domain.SearchFilter
	lastOrigin  *domain.GeoPoint
	byID        map[string]domain.Listing
	byIDOrigin  domain.GeoPoint
	pingErr     error
}

func (r *fakePropertyRepo) Search(_ context.Context, f domain.SearchFilter, origin *domain.GeoPoint) ([]domain.Listing, error) {
	r.searchCalls++
	r.lastFilter = f
	r.lastOrigin = origin
	if r.err != nil {
		return nil, r.err
	}
	return append([]domain.Listing(nil), r.listings...), nil
}

func (r *fakePropertyRepo) ListApproved(context.Context) ([]domain.Listing, error) {
	r.searchCalls++
	if r.err != nil {
		return nil, r.err
	}
	return append([]domain.Listing(nil), r.listings...), nil
}

func (r *fakePropertyRepo) GetByID(_ context.Context, id string, origin domain.GeoPoint) (*domain.Listing, error) {
	r.byIDOrigin = origin
	if r.err != nil {
		return nil, r.err
	}
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (r *fakePropertyRepo) Ping(context.Context) error { return r.pingErr }

type fakeContacts struct {
	calls map[string]int
	fail  map[string]bool
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{calls: map[string]int{}, fail: map[string]bool{}}
}

func (c *fakeContacts) GetOwnerContact(_ context.Context, ownerID string) (*domain.OwnerContact, error) {
	c.calls[ownerID]++
	if c.fail[ownerID] {
		return nil, errors.New("user service down")
	}
	return &domain.OwnerContact{Name: "Owner " + ownerID, Email: ownerID + "@example.com"}, nil
}

// fakeRouting is the raw upstream. Each method fails its first *Fails calls.
type fakeRouting struct {
	routeCalls, matrixCalls, geocodeCalls, tileCalls int

	routeFails, matrixFails, geocodeFails, tileFails int

	lastWaypoints []domain.GeoPoint
	lastCoords    []domain.GeoPoint

	matrixBody json.RawMessage
	geocoded   domain.GeoPoint
}

var errUpstream = errors.New("upstream 503")

func (f *fakeRouting) Route(_ context.Context, _ domain.GeoPoint, waypoints []domain.GeoPoint) (json.RawMessage, error) {
	f.routeCalls++
	f.lastWaypoints = waypoints
	if f.routeCalls <= f.routeFails {
		return nil, errUpstream
	}
	return json.RawMessage(`{"direction":[]}`), nil
}

func (f *fakeRouting) Matrix(_ context.Context, coords []domain.GeoPoint) (json.RawMessage, error) {
	f.matrixCalls++
	f.lastCoords = coords
	if f.matrixCalls <= f.matrixFails {
		return nil, errUpstream
	}
	return f.matrixBody, nil
}

func (f *fakeRouting) Geocode(_ context.Context, _ string) (domain.GeoPoint, error) {
	f.geocodeCalls++
	if f.geocodeCalls <= f.geocodeFails {
		return domain.GeoPoint{}, errUpstream
	}
	return f.geocoded, nil
}

func (f *fakeRouting) Tile(_ context.Context, _, _, _ int) ([]byte, error) {
	f.tileCalls++
	if f.tileCalls <= f.tileFails {
		return nil, errUpstream
	}
	return []byte("\x89PNG"), nil
}

type fakeDataset struct {
	catalog *domain.DestinationCatalog
	err     error
}

func (d fakeDataset) Catalog() (*domain.DestinationCatalog, error) { return d.catalog, d.err }

func instantPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	p.Sleep = func(context.Context, time.Duration) error { return nil }
	return p
}

func ptr[T any](v T) *T { return &v }

var testLinks = MapLinkBuilder{StaticMapURL: "https://maps.example.com/static", APIKey: "k"}
