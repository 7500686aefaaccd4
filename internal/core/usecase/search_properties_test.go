package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"search-service/internal/constants"
	"search-service/internal/core/domain"
)

func sampleListings() []domain.Listing {
	return []domain.Listing{
		{ID: "1", OwnerID: "u1", Title: "Flat", Price: 1200, Amenities: []string{"wifi"}, Lat: ptr(9.01), Lon: ptr(38.76), Status: domain.StatusApproved},
		{ID: "2", OwnerID: "u1", Title: "House", Price: 3000, Amenities: []string{}, Status: domain.StatusApproved},
		{ID: "3", OwnerID: "u2", Title: "Villa", Price: 9000, Amenities: []string{"pool"}, Lat: ptr(9.05), Lon: ptr(38.7), Status: domain.StatusApproved},
	}
}

func newSearch(repo *fakePropertyRepo, cache *fakeCache, routing *fakeRouting, contacts *fakeContacts) *SearchPropertiesUseCase {
	gw := NewCachedRoutingGateway(routing, cache, instantPolicy(), domain.GeoPoint{Lat: 9.03, Lon: 38.75})
	return NewSearchPropertiesUseCase(repo, cache, gw, contacts, testLinks)
}

func mustFilter(t *testing.T, in domain.SearchFilterInput) domain.SearchFilter {
	t.Helper()
	f, err := domain.NewSearchFilter(in)
	if err != nil {
		t.Fatalf("NewSearchFilter: %v", err)
	}
	return f
}

func TestSearchMissQueriesEnrichesAndCaches(t *testing.T) {
	repo := &fakePropertyRepo{listings: sampleListings()}
	cache := newFakeCache()
	contacts := newFakeContacts()
	contacts.fail["u2"] = true
	uc := newSearch(repo, cache, &fakeRouting{}, contacts)

	f := mustFilter(t, domain.SearchFilterInput{MaxPrice: ptr(5000.0)})
	got, err := uc.Execute(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || repo.searchCalls != 1 {
		t.Fatalf("got %d listings after %d queries", len(got), repo.searchCalls)
	}
	if repo.lastOrigin != nil {
		t.Fatal("unscoped search must not pass an origin")
	}

	if contacts.calls["u1"] != 1 {
		t.Fatalf("owner u1 looked up %d times, want 1", contacts.calls["u1"])
	}
	if got[0].OwnerContact == nil || got[1].OwnerContact == nil {
		t.Fatal("u1 listings should carry a contact")
	}
	if got[2].OwnerContact != nil {
		t.Fatal("failed lookup should leave owner_contact null")
	}
	if got[0].MapURL == nil || got[1].MapURL != nil {
		t.Fatal("map_url should follow coordinates")
	}

	if cache.ttls[f.CacheKey()] != constants.SearchResultTTL {
		t.Fatalf("ttl = %v", cache.ttls[f.CacheKey()])
	}
	var cached []domain.Listing
	if err := json.Unmarshal(cache.data[f.CacheKey()], &cached); err != nil {
		t.Fatalf("cache entry unreadable: %v", err)
	}
	if !reflect.DeepEqual(cached, got) {
		t.Fatalf("cache entry differs from response\n got %+v\nwant %+v", cached, got)
	}
}

func TestSearchHitSkipsRepository(t *testing.T) {
	repo := &fakePropertyRepo{listings: sampleListings()}
	cache := newFakeCache()
	uc := newSearch(repo, cache, &fakeRouting{}, newFakeContacts())
	f := mustFilter(t, domain.SearchFilterInput{})

	first, err := uc.Execute(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	setsAfterMiss := cache.sets

	second, err := uc.Execute(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if repo.searchCalls != 1 {
		t.Fatalf("repository queried %d times, want 1", repo.searchCalls)
	}
	if cache.sets != setsAfterMiss {
		t.Fatal("a clean hit must not rewrite the entry")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("hit returned a different collection")
	}
}

func TestSearchHitRepairsStaleLinks(t *testing.T) {
	repo := &fakePropertyRepo{}
	cache := newFakeCache()
	f := mustFilter(t, domain.SearchFilterInput{})

	stale := "https://old.example.com/map"
	body, _ := json.Marshal([]domain.Listing{{ID: "9", Lat: ptr(9.0), Lon: ptr(38.75), MapURL: &stale, Amenities: []string{}}})
	cache.data[f.CacheKey()] = body

	uc := newSearch(repo, cache, &fakeRouting{}, newFakeContacts())
	got, err := uc.Execute(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if repo.searchCalls != 0 {
		t.Fatal("repair must not query the repository")
	}
	if *got[0].MapURL == stale || got[0].PreviewURL == nil || got[0].Geohash == nil {
		t.Fatalf("listing not repaired: %+v", got[0])
	}
	if cache.sets != 1 || cache.ttls[f.CacheKey()] != constants.SearchResultTTL {
		t.Fatalf("repaired entry not rewritten: sets=%d", cache.sets)
	}

	var rewritten []domain.Listing
	_ = json.Unmarshal(cache.data[f.CacheKey()], &rewritten)
	if *rewritten[0].MapURL != *got[0].MapURL {
		t.Fatal("rewritten entry does not hold the repaired link")
	}
}

func TestSearchCorruptEntryIsRebuilt(t *testing.T) {
	repo := &fakePropertyRepo{listings: sampleListings()}
	cache := newFakeCache()
	f := mustFilter(t, domain.SearchFilterInput{})
	cache.data[f.CacheKey()] = []byte("{not json")

	uc := newSearch(repo, cache, &fakeRouting{}, newFakeContacts())
	got, err := uc.Execute(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if repo.searchCalls != 1 || len(got) != 3 {
		t.Fatalf("corrupt entry not rebuilt: calls=%d len=%d", repo.searchCalls, len(got))
	}
}

func TestSearchCacheReadFailureIsUpstreamUnavailable(t *testing.T) {
	repo := &fakePropertyRepo{listings: sampleListings()}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")

	uc := newSearch(repo, cache, &fakeRouting{}, newFakeContacts())
	_, err := uc.Execute(context.Background(), mustFilter(t, domain.SearchFilterInput{}))
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if repo.searchCalls != 0 {
		t.Fatal("repository should not be queried after a cache read failure")
	}
}

func TestSearchCacheWriteFailureStillReturnsResult(t *testing.T) {
	repo := &fakePropertyRepo{listings: sampleListings()}
	cache := newFakeCache()
	cache.setErr = errors.New("readonly replica")

	uc := newSearch(repo, cache, &fakeRouting{}, newFakeContacts())
	got, err := uc.Execute(context.Background(), mustFilter(t, domain.SearchFilterInput{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d listings", len(got))
	}
}

func TestSearchRepositoryFailure(t *testing.T) {
	repo := &fakePropertyRepo{err: errors.New("connection refused")}
	uc := newSearch(repo, newFakeCache(), &fakeRouting{}, newFakeContacts())
	_, err := uc.Execute(context.Background(), mustFilter(t, domain.SearchFilterInput{}))
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestSearchEmptyResultIsCached(t *testing.T) {
	repo := &fakePropertyRepo{}
	cache := newFakeCache()
	uc := newSearch(repo, cache, &fakeRouting{}, newFakeContacts())
	f := mustFilter(t, domain.SearchFilterInput{HouseType: "castle"})

	got, err := uc.Execute(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
	if string(cache.data[f.CacheKey()]) != "[]" {
		t.Fatalf("cached %q, want []", cache.data[f.CacheKey()])
	}
}

func TestSearchDistanceScopedResolvesOrigin(t *testing.T) {
	repo := &fakePropertyRepo{}
	routing := &fakeRouting{geocoded: domain.GeoPoint{Lat: 8.99, Lon: 38.79}}
	uc := newSearch(repo, newFakeCache(), routing, newFakeContacts())

	f := mustFilter(t, domain.SearchFilterInput{
		Location:      "Bole",
		UseDistance:   ptr(true),
		MaxDistanceKm: ptr(5.0),
	})
	if _, err := uc.Execute(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if routing.geocodeCalls != 1 {
		t.Fatalf("geocode calls = %d", routing.geocodeCalls)
	}
	if repo.lastOrigin == nil || *repo.lastOrigin != routing.geocoded {
		t.Fatalf("origin = %v, want %v", repo.lastOrigin, routing.geocoded)
	}
}

func TestSearchDistanceScopedUsesFallbackWhenGeocodingFails(t *testing.T) {
	repo := &fakePropertyRepo{}
	routing := &fakeRouting{geocodeFails: 99}
	uc := newSearch(repo, newFakeCache(), routing, newFakeContacts())

	f := mustFilter(t, domain.SearchFilterInput{
		Location:      "Nowhere",
		UseDistance:   ptr(true),
		MaxDistanceKm: ptr(5.0),
	})
	if _, err := uc.Execute(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	want := domain.GeoPoint{Lat: 9.03, Lon: 38.75}
	if repo.lastOrigin == nil || *repo.lastOrigin != want {
		t.Fatalf("origin = %v, want fallback %v", repo.lastOrigin, want)
	}
}

func TestListApprovedUsesSingletonKey(t *testing.T) {
	repo := &fakePropertyRepo{listings: sampleListings()}
	cache := newFakeCache()
	uc := NewListApprovedPropertiesUseCase(repo, cache, newFakeContacts(), testLinks)

	if _, err := uc.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.searchCalls != 1 {
		t.Fatalf("repository queried %d times", repo.searchCalls)
	}
	if _, ok := cache.data[constants.AllApprovedCacheKey]; !ok {
		t.Fatal("approved list not cached under its key")
	}
}
