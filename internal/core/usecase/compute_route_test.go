package usecase

import (
	"context"
	"errors"
	"testing"

	"search-service/internal/core/domain"
)

func newComputeRoute(up *fakeRouting) *ComputeRouteUseCase {
	gw := NewCachedRoutingGateway(up, nil, instantPolicy(), fallbackPoint)
	return NewComputeRouteUseCase(fakeDataset{catalog: scenarioCatalog()}, gw)
}

func TestComputeRouteResolvesNamesAndCoordinates(t *testing.T) {
	up := &fakeRouting{}
	uc := newComputeRoute(up)

	_, err := uc.Execute(context.Background(), scenarioOrigin, []domain.RouteWaypoint{
		{Name: "b"},
		{Name: "ignored", Lat: ptr(8.9), Lon: ptr(38.8)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.GeoPoint{{Lat: 9.045, Lon: 38.75}, {Lat: 8.9, Lon: 38.8}}
	if len(up.lastWaypoints) != 2 || up.lastWaypoints[0] != want[0] || up.lastWaypoints[1] != want[1] {
		t.Fatalf("waypoints = %v, want %v", up.lastWaypoints, want)
	}
}

func TestComputeRouteErrors(t *testing.T) {
	tests := []struct {
		name      string
		origin    domain.GeoPoint
		waypoints []domain.RouteWaypoint
		want      error
	}{
		{"unknown name", scenarioOrigin, []domain.RouteWaypoint{{Name: "Mars"}}, domain.ErrDestinationNotFound},
		{"neither name nor coordinates", scenarioOrigin, []domain.RouteWaypoint{{}}, domain.ErrInvalidRequest},
		{"only lat", scenarioOrigin, []domain.RouteWaypoint{{Lat: ptr(9.0)}}, domain.ErrInvalidRequest},
		{"no waypoints", scenarioOrigin, nil, domain.ErrInvalidRequest},
		{"origin out of range", domain.GeoPoint{Lat: 9, Lon: 181}, []domain.RouteWaypoint{{Name: "A"}}, domain.ErrInvalidRequest},
		{"waypoint out of range", scenarioOrigin, []domain.RouteWaypoint{{Lat: ptr(-91.0), Lon: ptr(0.0)}}, domain.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeRouting{}
			_, err := newComputeRoute(up).Execute(context.Background(), tt.origin, tt.waypoints)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if up.routeCalls != 0 {
				t.Fatal("rejected request reached the gateway")
			}
		})
	}
}

func TestComputeRouteGatewayFailure(t *testing.T) {
	up := &fakeRouting{routeFails: 99}
	_, err := newComputeRoute(up).Execute(context.Background(), scenarioOrigin, []domain.RouteWaypoint{{Name: "A"}})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
