package contracts

import (
	"search-service/internal/constants"
	"testing"
)

func TestEventKeyFromPath(t *testing.T) {
	if got := eventKeyFromPath("events/saved-search-created/v1.json"); got != "SavedSearchCreatedEvent/1.0.0" {
		t.Fatalf("got %q", got)
	}
	if got := eventKeyFromPath("events/broken.json"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestValidateSavedSearchCreatedEvent(t *testing.T) {
	valid := []byte(`{
		"event_id": "3b241101-e2bb-4255-8caf-4136c566a962",
		"event_type": "SavedSearchCreatedEvent",
		"event_version": "1.0.0",
		"occurred_at": "2025-11-11T10:00:00Z",
		"data": {"saved_search_id": 7, "user_id": "u-1", "location": "Bole", "min_price": 1000, "max_price": null, "amenities": ["wifi"]}
	}`)
	if err := ValidateEvent(constants.SavedSearchCreatedEventName, constants.SavedSearchCreatedVersion, valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invalid := []byte(`{
		"event_id": "3b241101-e2bb-4255-8caf-4136c566a962",
		"event_type": "SavedSearchCreatedEvent",
		"event_version": "1.0.0",
		"occurred_at": "2025-11-11T10:00:00Z",
		"data": {"saved_search_id": 0, "user_id": "u-1", "amenities": []}
	}`)
	if err := ValidateEvent(constants.SavedSearchCreatedEventName, constants.SavedSearchCreatedVersion, invalid); err == nil {
		t.Fatal("expected validation error for saved_search_id 0")
	}

	if err := ValidateEvent("UnknownEvent", "1.0.0", valid); err == nil {
		t.Fatal("expected error for unknown event")
	}
}

func TestValidateDestinationsDataset(t *testing.T) {
	ok := []byte(`[{"source": "Adama", "destination": "Mojo", "dest_lat": 8.59, "dest_lon": 39.12, "kilometer": 25, "price": 40}]`)
	if err := ValidateDataset(DestinationsDatasetSchema, ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, body := range []string{
		`[{"source": "Adama", "destination": "Mojo", "dest_lat": 95, "dest_lon": 39.12, "kilometer": 25, "price": 40}]`,
		`[{"source": "Adama", "dest_lat": 8.59, "dest_lon": 39.12, "kilometer": 25, "price": 40}]`,
		`{"source": "Adama"}`,
	} {
		if err := ValidateDataset(DestinationsDatasetSchema, []byte(body)); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
}
