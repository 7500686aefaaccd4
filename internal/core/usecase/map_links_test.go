package usecase

import (
	"testing"

	"search-service/internal/core/domain"
)

func TestMapLinkBuilderApply(t *testing.T) {
	l := domain.Listing{ID: "1", Lat: ptr(8.5408), Lon: ptr(39.2682)}

	if !testLinks.Apply(&l) {
		t.Fatal("first Apply should report a change")
	}
	wantMap := "https://maps.example.com/static?center=8.5408,39.2682&zoom=14&size=600x300&apiKey=k"
	if l.MapURL == nil || *l.MapURL != wantMap {
		t.Fatalf("map_url = %v, want %s", l.MapURL, wantMap)
	}
	wantPreview := "/api/v1/map/preview?lat=8.5408&lon=39.2682&zoom=14"
	if l.PreviewURL == nil || *l.PreviewURL != wantPreview {
		t.Fatalf("preview_url = %v, want %s", l.PreviewURL, wantPreview)
	}
	if l.Geohash == nil || len(*l.Geohash) != 7 {
		t.Fatalf("geohash = %v, want 7 characters", l.Geohash)
	}

	if testLinks.Apply(&l) {
		t.Fatal("second Apply should be a no-op")
	}
}

func TestMapLinkBuilderKeepsExistingPreview(t *testing.T) {
	custom := "/custom/preview"
	l := domain.Listing{Lat: ptr(9.0), Lon: ptr(38.75), PreviewURL: &custom}
	testLinks.Apply(&l)
	if *l.PreviewURL != custom {
		t.Fatalf("preview_url overwritten: %s", *l.PreviewURL)
	}
}

func TestMapLinkBuilderOverwritesStaleMapURL(t *testing.T) {
	stale := "https://old.example.com/map"
	l := domain.Listing{Lat: ptr(9.0), Lon: ptr(38.75), MapURL: &stale}
	if !testLinks.Apply(&l) {
		t.Fatal("expected change")
	}
	if *l.MapURL == stale {
		t.Fatal("stale map_url kept")
	}
}

func TestMapLinkBuilderClearsLinksWithoutCoordinates(t *testing.T) {
	u := "x"
	l := domain.Listing{Lat: ptr(9.0), MapURL: &u, PreviewURL: &u, Geohash: &u}
	if !testLinks.Apply(&l) {
		t.Fatal("expected change")
	}
	if l.MapURL != nil || l.PreviewURL != nil || l.Geohash != nil {
		t.Fatalf("links not cleared: %+v", l)
	}
	if testLinks.Apply(&l) {
		t.Fatal("clearing twice should be a no-op")
	}
}
