package rest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"search-service/internal/core/domain"
	"search-service/internal/core/port/usecases_port"
)

type fakeVerifier struct {
	identities map[string]*domain.Identity
	err        error
}

func (v fakeVerifier) Verify(_ context.Context, token string) (*domain.Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	id, ok := v.identities[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}

type fakeSearch struct {
	got    domain.SearchFilter
	result []domain.Listing
	err    error
}

func (f *fakeSearch) Execute(_ context.Context, filter domain.SearchFilter) ([]domain.Listing, error) {
	f.got = filter
	return f.result, f.err
}

type fakeListApproved struct{}

func (fakeListApproved) Execute(context.Context) ([]domain.Listing, error) {
	return []domain.Listing{{ID: "1", Amenities: []string{}}}, nil
}

type fakeGetProperty struct{}

func (fakeGetProperty) Execute(_ context.Context, id string) (*domain.Listing, error) {
	if id != "42" {
		return nil, domain.ErrNotFound
	}
	return &domain.Listing{ID: "42", Amenities: []string{}}, nil
}

type fakeSaveSearch struct{ got domain.SavedSearch }

func (f *fakeSaveSearch) Execute(_ context.Context, s domain.SavedSearch) (int64, error) {
	f.got = s
	return 7, nil
}

type fakeClearCache struct{}

func (fakeClearCache) Execute(context.Context) (int64, error) { return 3, nil }

type fakeRoute struct {
	err       error
	waypoints []domain.RouteWaypoint
}

func (f *fakeRoute) Execute(_ context.Context, _ domain.GeoPoint, w []domain.RouteWaypoint) (json.RawMessage, error) {
	f.waypoints = w
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"totalDistance":1234}`), nil
}

type fakeNearest struct{ limit int }

func (f *fakeNearest) Execute(_ context.Context, _ domain.GeoPoint, limit int) ([]domain.RankedDestination, error) {
	f.limit = limit
	return []domain.RankedDestination{{
		DestinationRecord: domain.DestinationRecord{Destination: "Adama"},
		DistanceKm:        1.5,
		DistanceSource:    domain.DistanceSourceHaversine,
	}}, nil
}

type fakeGeocode struct{}

func (fakeGeocode) Execute(context.Context, string) (domain.GeoPoint, error) {
	return domain.GeoPoint{Lat: 9.03, Lon: 38.75}, nil
}

type fakeTile struct{ err error }

func (f fakeTile) Execute(context.Context, int, int, int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG"), nil
}

type fakeReadiness struct{}

func (fakeReadiness) Execute(context.Context) usecases_port.ReadinessReport {
	return usecases_port.ReadinessReport{Status: "degraded", Checks: map[string]string{"redis": "ok", "database": "fail: down"}}
}

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (c *fakeCounter) Increment(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	if c.counts == nil {
		c.counts = map[string]int64{}
	}
	c.counts[key]++
	return c.counts[key], nil
}

var errBoom = errors.New("boom")
