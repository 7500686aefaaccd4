package domain

import "testing"

func TestDestinationCatalogByName(t *testing.T) {
	catalog := NewDestinationCatalog([]DestinationRecord{
		{Source: "Adama", Destination: "Mojo", DestLat: 8.59, DestLon: 39.12, Kilometer: 25, Price: 40},
		{Source: "Adama", Destination: "Bishoftu", DestLat: 8.75, DestLon: 38.98, Kilometer: 55, Price: 80},
		{Source: "Nazret", Destination: "mojo", DestLat: 1, DestLon: 1},
	})

	rec, ok := catalog.ByName("  MOJO ")
	if !ok {
		t.Fatal("expected Mojo to be found")
	}
	if rec.Source != "Adama" {
		t.Fatalf("first row should win, got source %q", rec.Source)
	}
	if _, ok := catalog.ByName("Hawassa"); ok {
		t.Fatal("unexpected match")
	}
	if catalog.Len() != 3 || catalog.At(1).Destination != "Bishoftu" {
		t.Fatal("dataset order not preserved")
	}

	records := catalog.Records()
	records[0].Destination = "changed"
	if catalog.At(0).Destination != "Mojo" {
		t.Fatal("Records must return a copy")
	}
}
