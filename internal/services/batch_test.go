package services

import (
	"charging-route-service/internal/domain"
	"context"
	"errors"
	"testing"
)

func TestSolveBatchKeepsOrder(t *testing.T) {
	search := newTestSearch(t, corridorStations, corridorPairs, DefaultSearchParams())

	reqs := []RouteRequest{
		{Start: "A", Goal: "C"},
		{Start: "A", Goal: "Wrong_name"},
		{Start: "A", Goal: "Island"},
		{Start: "C", Goal: "B"},
	}

	results, err := SolveBatch(context.Background(), search, reqs, 3)
	if err != nil {
		t.Fatalf("SolveBatch: %v", err)
	}
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	for i, r := range results {
		if r.Request != reqs[i] {
			t.Fatalf("result %d is for %+v, want %+v", i, r.Request, reqs[i])
		}
	}

	if results[0].Err != nil || results[0].Result.Route != "A, C" {
		t.Fatalf("result 0 = %+v", results[0])
	}
	if !errors.Is(results[1].Err, domain.ErrStationNotFound) {
		t.Fatalf("result 1 error = %v, want ErrStationNotFound", results[1].Err)
	}
	if results[2].Err != nil || results[2].Result.Found() {
		t.Fatalf("result 2 = %+v, want empty route", results[2])
	}
	if results[3].Result.Route != "C, B" {
		t.Fatalf("result 3 route = %q", results[3].Result.Route)
	}
}

func TestSolveBatchCancelled(t *testing.T) {
	search := newTestSearch(t, corridorStations, corridorPairs, DefaultSearchParams())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SolveBatch(ctx, search, []RouteRequest{{Start: "A", Goal: "B"}}, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
