package userclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"search-service/internal/core/domain"
	"testing"
)

func TestGetOwnerContact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/owner-1":
			w.Write([]byte(`{"full_name": "Abebe Kebede", "email": "abebe@example.com", "phone_number": "+251911000000"}`))
		case "/users/owner-2":
			w.Write([]byte(`{"name": "Sara", "username": "sara1", "phone": "+251922000000"}`))
		case "/users/owner-3":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)

	c, err := client.GetOwnerContact(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.OwnerContact{Name: "Abebe Kebede", Email: "abebe@example.com", Phone: "+251911000000"}
	if *c != want {
		t.Fatalf("contact = %+v, want %+v", *c, want)
	}

	c, err = client.GetOwnerContact(context.Background(), "owner-2")
	if err != nil || c.Name != "Sara" || c.Phone != "+251922000000" {
		t.Fatalf("contact = %+v, err = %v", c, err)
	}

	if _, err := client.GetOwnerContact(context.Background(), "owner-3"); err == nil {
		t.Fatal("expected error for 500")
	}
	if _, err := client.GetOwnerContact(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
