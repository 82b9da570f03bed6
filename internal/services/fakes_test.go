package services

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"fmt"
	"sync"
	"time"
)

type fakeStore struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	seq    []string
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[string]*domain.Order)}
}

func (f *fakeStore) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.orders[order.OrderNumber] = order
	f.seq = append(f.seq, order.OrderNumber)
	return nil
}

func (f *fakeStore) GetByNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	order, ok := f.orders[orderNumber]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderNumber, domain.ErrOrderNotFound)
	}
	return order, nil
}

func (f *fakeStore) ListQueued(_ context.Context) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var queued []*domain.Order
	for _, n := range f.seq {
		if f.orders[n].Status == domain.OrderQueued {
			queued = append(queued, f.orders[n])
		}
	}
	return queued, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, orderNumber string, status domain.OrderStatus, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderNumber]
	if !ok {
		return fmt.Errorf("order %s: %w", orderNumber, domain.ErrOrderNotFound)
	}
	order.Status = status
	switch status {
	case domain.OrderInTransit:
		order.DispatchedAt = &at
	case domain.OrderArrived:
		order.ArrivedAt = &at
	case domain.OrderCollected:
		order.CollectedAt = &at
	case domain.OrderCompleted:
		order.CompletedAt = &at
	}
	return nil
}

func (f *fakeStore) AssignDrone(_ context.Context, orderNumber, droneID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderNumber]
	if !ok {
		return fmt.Errorf("order %s: %w", orderNumber, domain.ErrOrderNotFound)
	}
	order.AssignedDroneID = droneID
	return nil
}

func (f *fakeStore) status(orderNumber string) domain.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[orderNumber].Status
}

type fakeCatalog struct {
	mu           sync.Mutex
	drones       []*domain.Drone
	points       []*domain.ServicePoint
	zones        []*domain.NoFlyZone
	associations []*domain.ServicePointDrones
	calls        int
	err          error
}

func (f *fakeCatalog) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeCatalog) Drones(context.Context) ([]*domain.Drone, error) {
	f.count()
	return f.drones, f.err
}

func (f *fakeCatalog) ServicePoints(context.Context) ([]*domain.ServicePoint, error) {
	f.count()
	return f.points, f.err
}

func (f *fakeCatalog) NoFlyZones(context.Context) ([]*domain.NoFlyZone, error) {
	f.count()
	return f.zones, f.err
}

func (f *fakeCatalog) ServicePointDrones(context.Context) ([]*domain.ServicePointDrones, error) {
	f.count()
	return f.associations, f.err
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCache struct {
	mu    sync.Mutex
	paths map[string]domain.FlightPath
	puts  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{paths: make(map[string]domain.FlightPath)}
}

func (f *fakeCache) Get(_ context.Context, orderNumber string) (domain.FlightPath, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path, ok := f.paths[orderNumber]
	return path, ok, nil
}

func (f *fakeCache) Put(_ context.Context, orderNumber string, path domain.FlightPath) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths[orderNumber] = path
	f.puts++
	return nil
}
