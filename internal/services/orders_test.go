package services

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestCreateOrder(t *testing.T) {
	store := newFakeStore()
	svc := NewOrderService(store, schedulerCatalog(), testSimulator(0), discardLogger())

	order, err := svc.CreateOrder(context.Background(), "12 Nicolson St", geo.Position{Lng: -3.1905, Lat: 55.946}, domain.Requirements{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Errorf("order number = %q, want ORD- prefix", order.OrderNumber)
	}
	if order.Status != domain.OrderQueued {
		t.Errorf("status = %s, want QUEUED", order.Status)
	}
	if _, err := svc.GetOrder(context.Background(), order.OrderNumber); err != nil {
		t.Errorf("created order should be retrievable: %v", err)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	svc := NewOrderService(newFakeStore(), schedulerCatalog(), testSimulator(0), discardLogger())
	_, err := svc.GetOrder(context.Background(), "ORD-MISSING")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestConfirmPickupRequiresArrival(t *testing.T) {
	store := newFakeStore()
	svc := NewOrderService(store, schedulerCatalog(), testSimulator(0), discardLogger())

	queueOrder(t, store, "ORD-EARLY", geo.Position{Lng: -3.1905, Lat: 55.946}, time.Now())
	err := svc.ConfirmPickup(context.Background(), "ORD-EARLY")
	if !errors.Is(err, ErrNotArrived) {
		t.Fatalf("err = %v, want ErrNotArrived", err)
	}
}

// Runs one order through the whole lifecycle: dispatch, arrival, pickup,
// return, completion.
func TestOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	catalog := schedulerCatalog()
	sim := testSimulator(0)
	svc := NewOrderService(store, catalog, sim, discardLogger())
	sched := NewScheduler(store, catalog, nil, testPlanner(), sim, time.Second, discardLogger())

	delivery := geo.Position{Lng: schedulerBase.Lng + 4*geo.StepSize, Lat: schedulerBase.Lat}
	order := queueOrder(t, store, "ORD-LIFE", delivery, time.Now())

	if err := sched.DispatchNext(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.status(order.OrderNumber); got != domain.OrderInTransit {
		t.Fatalf("status = %s, want IN_TRANSIT", got)
	}

	runFlight := func() {
		for i := 0; i < 50 && sim.AnyActive(); i++ {
			for _, u := range sim.Tick() {
				svc.HandleStatusChange(ctx, u)
			}
		}
		if sim.AnyActive() {
			t.Fatal("flight did not finish")
		}
	}

	runFlight()
	if got := store.status(order.OrderNumber); got != domain.OrderArrived {
		t.Fatalf("status = %s, want ARRIVED after the outbound flight", got)
	}

	if err := svc.ConfirmPickup(ctx, order.OrderNumber); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.status(order.OrderNumber); got != domain.OrderCollected {
		t.Fatalf("status = %s, want COLLECTED after pickup", got)
	}
	if !sim.AnyActive() {
		t.Fatal("pickup should launch the return journey")
	}

	runFlight()
	if got := store.status(order.OrderNumber); got != domain.OrderCompleted {
		t.Fatalf("status = %s, want COMPLETED after the return", got)
	}

	stored, err := store.GetByNumber(ctx, order.OrderNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.DispatchedAt == nil || stored.ArrivedAt == nil || stored.CollectedAt == nil || stored.CompletedAt == nil {
		t.Error("every lifecycle transition should stamp its timestamp")
	}
}

func TestCancelOrderStopsFlight(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	catalog := schedulerCatalog()
	sim := testSimulator(0)
	svc := NewOrderService(store, catalog, sim, discardLogger())
	sched := NewScheduler(store, catalog, nil, testPlanner(), sim, time.Second, discardLogger())

	delivery := geo.Position{Lng: schedulerBase.Lng + 8*geo.StepSize, Lat: schedulerBase.Lat}
	order := queueOrder(t, store, "ORD-CXL", delivery, time.Now())

	if err := sched.DispatchNext(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.Tick()

	if err := svc.CancelOrder(ctx, order.OrderNumber); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.status(order.OrderNumber); got != domain.OrderCancelled {
		t.Errorf("status = %s, want CANCELLED", got)
	}
	if sim.AnyActive() {
		t.Error("cancelling should stop the flight")
	}

	if err := svc.CancelOrder(ctx, order.OrderNumber); err == nil {
		t.Error("cancelling twice should fail")
	}
}
