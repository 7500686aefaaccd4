package usecase

import (
	"context"
	"errors"
	"testing"

	"search-service/internal/constants"
	"search-service/internal/core/domain"
)

func TestGetPropertyEnrichesAndUsesReferenceOrigin(t *testing.T) {
	ref := domain.GeoPoint{Lat: 8.5408, Lon: 39.2682}
	repo := &fakePropertyRepo{byID: map[string]domain.Listing{
		"42": {ID: "42", OwnerID: "u7", Lat: ptr(8.55), Lon: ptr(39.27), Status: domain.StatusPending},
	}}
	uc := NewGetPropertyUseCase(repo, newFakeContacts(), testLinks, ref)

	got, err := uc.Execute(context.Background(), "42")
	if err != nil {
		t.Fatal(err)
	}
	if repo.byIDOrigin != ref {
		t.Fatalf("origin = %v, want %v", repo.byIDOrigin, ref)
	}
	if got.MapURL == nil || got.OwnerContact == nil || got.Amenities == nil {
		t.Fatalf("listing not enriched: %+v", got)
	}
}

func TestGetPropertyNotFound(t *testing.T) {
	uc := NewGetPropertyUseCase(&fakePropertyRepo{}, newFakeContacts(), testLinks, fallbackPoint)
	if _, err := uc.Execute(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type fakeSavedRepo struct {
	created *domain.SavedSearch
	err     error
}

func (r *fakeSavedRepo) Create(_ context.Context, s *domain.SavedSearch) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.created = s
	return 17, nil
}

type fakeSavedPublisher struct {
	events []domain.SavedSearch
	err    error
}

func (p *fakeSavedPublisher) PublishSavedSearchCreated(_ context.Context, s domain.SavedSearch) error {
	p.events = append(p.events, s)
	return p.err
}

func TestSaveSearchStoresAndPublishes(t *testing.T) {
	repo := &fakeSavedRepo{}
	pub := &fakeSavedPublisher{}
	uc := NewSaveSearchUseCase(repo, pub)

	id, err := uc.Execute(context.Background(), domain.SavedSearch{
		UserID:    "u1",
		MinPrice:  ptr(100.0),
		MaxPrice:  ptr(200.0),
		Amenities: []string{" WiFi", "parking", "wifi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if id != 17 {
		t.Fatalf("id = %d", id)
	}
	if got := repo.created.Amenities; len(got) != 2 || got[0] != "parking" || got[1] != "wifi" {
		t.Fatalf("amenities = %v", got)
	}
	if len(pub.events) != 1 || pub.events[0].ID != 17 {
		t.Fatalf("events = %+v", pub.events)
	}
}

func TestSaveSearchPublishFailureIsNotAnError(t *testing.T) {
	uc := NewSaveSearchUseCase(&fakeSavedRepo{}, &fakeSavedPublisher{err: errors.New("broker down")})
	if _, err := uc.Execute(context.Background(), domain.SavedSearch{UserID: "u1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveSearchRejectsInvertedPriceRange(t *testing.T) {
	repo := &fakeSavedRepo{}
	uc := NewSaveSearchUseCase(repo, nil)
	_, err := uc.Execute(context.Background(), domain.SavedSearch{UserID: "u1", MinPrice: ptr(500.0), MaxPrice: ptr(100.0)})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("invalid search was stored")
	}
}

func TestClearCacheRemovesSearchEntriesOnly(t *testing.T) {
	cache := newFakeCache()
	cache.data["search:a"] = []byte("[]")
	cache.data["search:b"] = []byte("[]")
	cache.data[constants.AllApprovedCacheKey] = []byte("[]")
	cache.data["onm:route"] = []byte("{}")
	uc := NewClearCacheUseCase(cache)

	n, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("deleted = %d, want 3", n)
	}
	if _, ok := cache.data["onm:route"]; !ok {
		t.Fatal("routing cache must survive invalidation")
	}

	n, err = uc.Execute(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("second clear: n=%d err=%v", n, err)
	}
}

func TestClearCacheStoreFailure(t *testing.T) {
	cache := newFakeCache()
	cache.scanErr = errors.New("redis down")
	if _, err := NewClearCacheUseCase(cache).Execute(context.Background()); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestReadinessReportsDegraded(t *testing.T) {
	cache := newFakeCache()
	repo := &fakePropertyRepo{pingErr: errors.New("pg down")}

	report := NewReadinessUseCase(cache, repo).Execute(context.Background())
	if report.Status != "degraded" {
		t.Fatalf("status = %s", report.Status)
	}
	if report.Checks["redis"] != "ok" || report.Checks["database"] != "fail: pg down" {
		t.Fatalf("checks = %v", report.Checks)
	}

	repo.pingErr = nil
	if report := NewReadinessUseCase(cache, repo).Execute(context.Background()); report.Status != "ok" {
		t.Fatalf("status = %s", report.Status)
	}
}

func TestMapTileValidatesCoordinates(t *testing.T) {
	up := &fakeRouting{}
	uc := NewMapTileUseCase(NewCachedRoutingGateway(up, nil, instantPolicy(), fallbackPoint))

	if _, err := uc.Execute(context.Background(), 2, 4, 0); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("x beyond 2^z: got %v", err)
	}
	if _, err := uc.Execute(context.Background(), 2, 3, 3); err != nil {
		t.Fatalf("valid tile: %v", err)
	}
	if up.tileCalls != 1 {
		t.Fatalf("tile calls = %d", up.tileCalls)
	}
}
