package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCatalogLoadsOnce(t *testing.T) {
	path := writeFile(t, `[
		{"source": "Adama", "destination": "Mojo", "dest_lat": 8.59, "dest_lon": 39.12, "kilometer": 25, "price": 40},
		{"source": "Adama", "destination": "Bishoftu", "dest_lat": 8.75, "dest_lon": 38.98, "kilometer": 55, "price": 80}
	]`)
	ds := NewFileDestinationDataset(path)

	catalog, err := ds.Catalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("len = %d", catalog.Len())
	}

	// later file changes are not observed
	if err := os.WriteFile(path, []byte(`[]`), 0o600); err != nil {
		t.Fatal(err)
	}
	again, err := ds.Catalog()
	if err != nil || again != catalog {
		t.Fatalf("expected the same catalog, got %v %v", again, err)
	}
}

func TestCatalogRejectsInvalidDataset(t *testing.T) {
	path := writeFile(t, `[{"source": "Adama", "destination": "Mojo", "dest_lat": "north", "dest_lon": 39.12, "kilometer": 25, "price": 40}]`)
	if _, err := NewFileDestinationDataset(path).Catalog(); err == nil {
		t.Fatal("expected schema error")
	}
}

func TestCatalogMissingFile(t *testing.T) {
	ds := NewFileDestinationDataset(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := ds.Catalog(); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ds.Catalog(); err == nil {
		t.Fatal("load error must be sticky")
	}
}

func TestEmptyDataset(t *testing.T) {
	catalog, err := NewFileDestinationDataset(writeFile(t, `[]`)).Catalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.Len() != 0 {
		t.Fatalf("len = %d", catalog.Len())
	}
}
