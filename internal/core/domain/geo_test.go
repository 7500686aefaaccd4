package domain

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	p := GeoPoint{Lat: 9.03, Lon: 38.75}
	if d := HaversineKm(p, p); d != 0 {
		t.Fatalf("distance to self = %v", d)
	}

	// one degree of latitude on a 6371 km sphere
	d := HaversineKm(GeoPoint{Lat: 0, Lon: 0}, GeoPoint{Lat: 1, Lon: 0})
	if math.Abs(d-111.195) > 0.01 {
		t.Fatalf("one degree = %v km", d)
	}

	ab := HaversineKm(GeoPoint{Lat: 9.03, Lon: 38.75}, GeoPoint{Lat: 8.5408, Lon: 39.2682})
	ba := HaversineKm(GeoPoint{Lat: 8.5408, Lon: 39.2682}, GeoPoint{Lat: 9.03, Lon: 38.75})
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("not symmetric: %v vs %v", ab, ba)
	}
}

func TestParseLatLon(t *testing.T) {
	p, ok := ParseLatLon(" 8.5408 , 39.2682 ")
	if !ok || p.Lat != 8.5408 || p.Lon != 39.2682 {
		t.Fatalf("got %v %v", p, ok)
	}
	for _, in := range []string{"Bole", "91,0", "1", "a,b", "0,181"} {
		if _, ok := ParseLatLon(in); ok {
			t.Fatalf("%q parsed as coordinates", in)
		}
	}
}
