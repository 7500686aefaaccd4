package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"search-service/internal/contextkeys"
)

func TestForwardedForIgnoredWithoutTrustedProxy(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode/Bole", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		if i < 5 && rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
		if i == 5 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("rotated header escaped the limit: status = %d", rec.Code)
		}
	}
	if len(env.counter.counts) != 1 || env.counter.counts["ratelimit:geocode:ip:192.0.2.1"] != 6 {
		t.Fatalf("unexpected limiter keys: %v", env.counter.counts)
	}
}

func TestTrustedRealIP(t *testing.T) {
	trusted := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.7", "not-an-ip"}, contextkeys.LoggerFromContext(context.Background()))
	if len(trusted) != 2 {
		t.Fatalf("parsed %v", trusted)
	}

	var seen string
	h := TrustedRealIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	tests := []struct {
		name string
		peer string
		want string
	}{
		{"proxy in range", "10.1.2.3:5000", "198.51.100.9"},
		{"single proxy address", "192.0.2.7:5000", "198.51.100.9"},
		{"untrusted peer", "192.0.2.8:5000", "192.0.2.8:5000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.peer
			req.Header.Set("X-Forwarded-For", "198.51.100.9")
			h.ServeHTTP(httptest.NewRecorder(), req)
			if seen != tt.want {
				t.Fatalf("remote addr = %q, want %q", seen, tt.want)
			}
		})
	}
}
