package services

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"io"
	"log"
	"testing"
	"time"
)

var schedulerBase = geo.Position{Lng: -3.192000, Lat: 55.946000}

func schedulerCatalog() *fakeCatalog {
	return &fakeCatalog{
		drones: []*domain.Drone{testDrone("DRONE-001", domain.Capability{})},
		points: []*domain.ServicePoint{
			{ID: 1, Name: "base", Location: schedulerBase},
		},
		associations: []*domain.ServicePointDrones{
			{ServicePointID: 1, Drones: []domain.DroneAssignment{{DroneID: "DRONE-001"}}},
		},
	}
}

func queueOrder(t *testing.T, store *fakeStore, n string, delivery geo.Position, createdAt time.Time) *domain.Order {
	t.Helper()
	order := &domain.Order{
		OrderNumber: n,
		Delivery:    delivery,
		Status:      domain.OrderQueued,
		CreatedAt:   createdAt,
	}
	if err := store.Create(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return order
}

func TestSchedulerDispatchesOldestQueued(t *testing.T) {
	store := newFakeStore()
	catalog := schedulerCatalog()
	sim := testSimulator(0)
	sched := NewScheduler(store, catalog, nil, testPlanner(), sim, time.Second, log.New(io.Discard, "", 0))

	delivery := geo.Position{Lng: schedulerBase.Lng + 5*geo.StepSize, Lat: schedulerBase.Lat}
	queueOrder(t, store, "ORD-1", delivery, time.Now().Add(-time.Minute))
	queueOrder(t, store, "ORD-2", delivery, time.Now())

	if err := sched.DispatchNext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.status("ORD-1"); got != domain.OrderInTransit {
		t.Errorf("ORD-1 status = %s, want IN_TRANSIT", got)
	}
	if got := store.status("ORD-2"); got != domain.OrderQueued {
		t.Errorf("ORD-2 status = %s, want QUEUED while a flight is up", got)
	}
	if !sim.IsActive("DRONE-001") {
		t.Error("drone should be flying after dispatch")
	}

	// The single-flight policy skips the next tick entirely.
	if err := sched.DispatchNext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.status("ORD-2"); got != domain.OrderQueued {
		t.Errorf("ORD-2 dispatched while another flight was active, status = %s", got)
	}
}

func TestSchedulerReplaysCachedPath(t *testing.T) {
	store := newFakeStore()
	catalog := schedulerCatalog()
	cache := newFakeCache()
	sim := testSimulator(0)
	sched := NewScheduler(store, catalog, cache, testPlanner(), sim, time.Second, log.New(io.Discard, "", 0))

	delivery := geo.Position{Lng: schedulerBase.Lng + 3*geo.StepSize, Lat: schedulerBase.Lat}
	order := queueOrder(t, store, "ORD-CACHED", delivery, time.Now())

	// The cached path already carries hover repetitions.
	cached := AppendHover(domain.NewFlightPath([]geo.Position{
		schedulerBase,
		{Lng: schedulerBase.Lng + geo.StepSize, Lat: schedulerBase.Lat},
		{Lng: schedulerBase.Lng + 2*geo.StepSize, Lat: schedulerBase.Lat},
		delivery,
	}))
	cache.paths[order.OrderNumber] = cached

	if err := sched.DispatchNext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if catalog.callCount() != 0 {
		t.Errorf("catalog fetched %d times for a cache hit, want 0", catalog.callCount())
	}
	if cache.puts != 0 {
		t.Errorf("cache rewritten %d times on replay, want 0", cache.puts)
	}
	if got := store.status("ORD-CACHED"); got != domain.OrderInTransit {
		t.Errorf("status = %s, want IN_TRANSIT", got)
	}
}

func TestSchedulerCachesComputedPath(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	sim := testSimulator(0)
	sched := NewScheduler(store, schedulerCatalog(), cache, testPlanner(), sim, time.Second, log.New(io.Discard, "", 0))

	delivery := geo.Position{Lng: schedulerBase.Lng + 4*geo.StepSize, Lat: schedulerBase.Lat}
	order := queueOrder(t, store, "ORD-FRESH", delivery, time.Now())

	if err := sched.DispatchNext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, ok := cache.paths[order.OrderNumber]
	if !ok {
		t.Fatal("computed path should be cached")
	}
	n := len(path)
	if n < hoverDuration+2 {
		t.Fatalf("cached path too short: %d waypoints", n)
	}
	for i := n - hoverDuration; i < n; i++ {
		if !domain.IsHoverPair(path[i-1], path[i]) {
			t.Errorf("cached path waypoint %d should be a hover repetition", i)
		}
	}
}

func TestSchedulerNoQueuedOrders(t *testing.T) {
	sched := NewScheduler(newFakeStore(), schedulerCatalog(), nil, testPlanner(), testSimulator(0), time.Second, log.New(io.Discard, "", 0))
	if err := sched.DispatchNext(context.Background()); err != nil {
		t.Fatalf("idle tick should not error: %v", err)
	}
}

func TestSchedulerIsolatesOrderFailure(t *testing.T) {
	store := newFakeStore()
	catalog := schedulerCatalog()
	sim := testSimulator(0)
	sched := NewScheduler(store, catalog, nil, testPlanner(), sim, time.Second, log.New(io.Discard, "", 0))

	// Delivery inside a zone: pathfinding fails for this order.
	zone := rect("blocked", -3.189500, 55.946500, -3.188500, 55.947500)
	catalog.zones = []*domain.NoFlyZone{zone}
	queueOrder(t, store, "ORD-BAD", geo.Position{Lng: -3.189000, Lat: 55.947000}, time.Now())

	err := sched.DispatchNext(context.Background())
	if err == nil {
		t.Fatal("expected a dispatch error for the blocked order")
	}
	if sim.AnyActive() {
		t.Error("no flight should start for a failed dispatch")
	}
	if got := store.status("ORD-BAD"); got != domain.OrderQueued {
		t.Errorf("failed order status = %s, want QUEUED", got)
	}
}
