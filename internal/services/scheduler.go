package services

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/ports"
	"fmt"
	"log"
	"time"
)

// DefaultSchedulerPeriod is how often the dispatcher looks for work.
const DefaultSchedulerPeriod = 5 * time.Second

// Scheduler periodically pulls the oldest queued order and starts its
// flight. One flight at a time: a tick with any active flight is skipped
// outright, and a failure dispatching one order never stops the loop.
type Scheduler struct {
	store   ports.OrderStore
	catalog ports.Catalog
	cache   ports.PathCache
	planner *Planner
	sim     *Simulator
	period  time.Duration
	logger  *log.Logger
}

// NewScheduler wires a scheduler. cache may be nil, in which case every
// dispatch recomputes its path. A non-positive period selects the default.
func NewScheduler(store ports.OrderStore, catalog ports.Catalog, cache ports.PathCache, planner *Planner, sim *Simulator, period time.Duration, logger *log.Logger) *Scheduler {
	if period <= 0 {
		period = DefaultSchedulerPeriod
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		store:   store,
		catalog: catalog,
		cache:   cache,
		planner: planner,
		sim:     sim,
		period:  period,
		logger:  logger,
	}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	s.logger.Printf("scheduler: running period=%s", s.period)
	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("scheduler: stopped")
			return
		case <-ticker.C:
			if err := s.DispatchNext(ctx); err != nil {
				s.logger.Printf("scheduler: dispatch failed err=%v", err)
			}
		}
	}
}

// DispatchNext runs one scheduler tick: skip when a flight is active,
// otherwise launch the oldest queued order.
func (s *Scheduler) DispatchNext(ctx context.Context) error {
	if s.sim.AnyActive() {
		return nil
	}

	queued, err := s.store.ListQueued(ctx)
	if err != nil {
		return fmt.Errorf("dispatch next: %w", err)
	}
	if len(queued) == 0 {
		return nil
	}
	order := queued[0]

	path, droneID, err := s.resolvePath(ctx, order)
	if err != nil {
		return fmt.Errorf("dispatch next: order %s: %w", order.OrderNumber, err)
	}

	now := time.Now()
	if err := s.store.AssignDrone(ctx, order.OrderNumber, droneID); err != nil {
		return fmt.Errorf("dispatch next: order %s: %w", order.OrderNumber, err)
	}
	if err := s.store.UpdateStatus(ctx, order.OrderNumber, domain.OrderInTransit, now); err != nil {
		return fmt.Errorf("dispatch next: order %s: %w", order.OrderNumber, err)
	}
	if err := s.sim.StartFlight(droneID, path, order.OrderNumber); err != nil {
		return fmt.Errorf("dispatch next: order %s: %w", order.OrderNumber, err)
	}

	s.logger.Printf("scheduler: dispatched order=%s drone=%s waypoints=%d", order.OrderNumber, droneID, len(path))
	return nil
}

// resolvePath returns the outbound path for an order, replaying the cached
// one when present. Cached paths already carry their hover repetitions.
func (s *Scheduler) resolvePath(ctx context.Context, order *domain.Order) (domain.FlightPath, string, error) {
	if s.cache != nil {
		path, ok, err := s.cache.Get(ctx, order.OrderNumber)
		if err != nil {
			s.logger.Printf("scheduler: path cache read failed order=%s err=%v", order.OrderNumber, err)
		} else if ok {
			return path, s.droneFor(order, nil, 0), nil
		}
	}

	data, err := LoadPlanningData(ctx, s.catalog)
	if err != nil {
		return nil, "", err
	}
	path, sp, err := s.planner.PathToDelivery(data, order.Delivery)
	if err != nil {
		return nil, "", err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, order.OrderNumber, path); err != nil {
			s.logger.Printf("scheduler: path cache write failed order=%s err=%v", order.OrderNumber, err)
		}
	}

	return path, s.droneFor(order, data, sp.ID), nil
}

// droneFor picks the drone flying an order: the recorded assignment, the
// first idle drone at the departure service point, or the default drone.
func (s *Scheduler) droneFor(order *domain.Order, data *PlanningData, servicePointID int) string {
	if order.AssignedDroneID != "" {
		return order.AssignedDroneID
	}
	if data != nil {
		for _, d := range data.DronesAt(servicePointID) {
			if !s.sim.IsActive(d.ID) {
				return d.ID
			}
		}
	}
	return defaultDroneID
}
