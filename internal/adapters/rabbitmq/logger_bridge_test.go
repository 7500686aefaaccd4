package rabbitmq

import "testing"

func TestPairsToFields(t *testing.T) {
	fields := pairsToFields([]interface{}{"exchange", "search_exchange", 7, "seven", "dangling"})

	if fields["exchange"] != "search_exchange" {
		t.Fatalf("exchange = %v", fields["exchange"])
	}
	if fields["7"] != "seven" {
		t.Fatalf("non-string key lost: %v", fields)
	}
	if fields["extra"] != "dangling" {
		t.Fatalf("dangling value lost: %v", fields)
	}
	if pairsToFields(nil) != nil {
		t.Fatal("expected nil fields for no pairs")
	}
}
