package api

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/services"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type stubStore struct {
	mu       sync.Mutex
	statuses map[string]domain.OrderStatus
}

func (s *stubStore) Create(context.Context, *domain.Order) error { return nil }

func (s *stubStore) GetByNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	return nil, fmt.Errorf("order %s: %w", orderNumber, domain.ErrOrderNotFound)
}

func (s *stubStore) ListQueued(context.Context) ([]*domain.Order, error) { return nil, nil }

func (s *stubStore) UpdateStatus(_ context.Context, orderNumber string, status domain.OrderStatus, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statuses == nil {
		s.statuses = make(map[string]domain.OrderStatus)
	}
	s.statuses[orderNumber] = status
	return nil
}

func (s *stubStore) AssignDrone(context.Context, string, string) error { return nil }

func (s *stubStore) statusOf(orderNumber string) domain.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[orderNumber]
}

type stubCatalog struct{}

func (stubCatalog) Drones(context.Context) ([]*domain.Drone, error)               { return nil, nil }
func (stubCatalog) ServicePoints(context.Context) ([]*domain.ServicePoint, error) { return nil, nil }
func (stubCatalog) NoFlyZones(context.Context) ([]*domain.NoFlyZone, error)       { return nil, nil }
func (stubCatalog) ServicePointDrones(context.Context) ([]*domain.ServicePointDrones, error) {
	return nil, nil
}

func TestFeedBroadcastsAndBridgesStatus(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	sim := services.NewSimulator(0, logger)
	store := &stubStore{}
	orders := services.NewOrderService(store, stubCatalog{}, sim, logger)
	feed := NewFeed(sim, orders, 5*time.Millisecond, logger)

	srv := httptest.NewServer(http.HandlerFunc(feed.Handle))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx)

	start := geo.Position{Lng: -3.192, Lat: 55.946}
	path := domain.NewFlightPath([]geo.Position{
		start,
		{Lng: start.Lng + geo.StepSize, Lat: start.Lat},
		{Lng: start.Lng + 2*geo.StepSize, Lat: start.Lat},
	})
	if err := sim.StartFlight("DRONE-001", path, "ORD-WS"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var update services.PositionUpdate
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update.DroneID != "DRONE-001" {
		t.Errorf("droneId = %s, want DRONE-001", update.DroneID)
	}
	if update.OrderNumber != "ORD-WS" {
		t.Errorf("orderNumber = %s, want ORD-WS", update.OrderNumber)
	}

	// The flight is 3 waypoints long; well before the deadline it arrives
	// and the bridge marks the order.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.statusOf("ORD-WS") == domain.OrderArrived {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("order never bridged to ARRIVED")
}
