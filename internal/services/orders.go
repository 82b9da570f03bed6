package services

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotArrived rejects a pickup confirmation for an order whose drone has
// not arrived yet.
var ErrNotArrived = errors.New("order has not arrived")

// defaultDroneID serves orders when no drone assignment is recorded.
const defaultDroneID = "DRONE-001"

// OrderService owns the order lifecycle:
// QUEUED -> IN_TRANSIT -> ARRIVED -> COLLECTED -> COMPLETED, with CANCELLED
// as the operator's terminal. It bridges simulator status changes back onto
// stored orders.
type OrderService struct {
	store   ports.OrderStore
	catalog ports.Catalog
	sim     *Simulator
	logger  *log.Logger
}

func NewOrderService(store ports.OrderStore, catalog ports.Catalog, sim *Simulator, logger *log.Logger) *OrderService {
	if logger == nil {
		logger = log.Default()
	}
	return &OrderService{store: store, catalog: catalog, sim: sim, logger: logger}
}

// CreateOrder queues a new order with a fresh order number. Coordinates are
// resolved by the caller.
func (s *OrderService) CreateOrder(ctx context.Context, address string, delivery geo.Position, req domain.Requirements) (*domain.Order, error) {
	order := &domain.Order{
		OrderNumber:     newOrderNumber(),
		CustomerAddress: address,
		Delivery:        delivery,
		Requirements:    req,
		Status:          domain.OrderQueued,
		CreatedAt:       time.Now(),
	}
	if err := s.store.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Printf("orders: created order=%s address=%q", order.OrderNumber, address)
	return order, nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// GetOrder returns one order or domain.ErrOrderNotFound.
func (s *OrderService) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.store.GetByNumber(ctx, orderNumber)
}

// ConfirmPickup records that the customer collected the delivery and sends
// the drone home. The simulator classifies the new flight as a return
// journey because the session arrived carrying this order.
func (s *OrderService) ConfirmPickup(ctx context.Context, orderNumber string) error {
	order, err := s.store.GetByNumber(ctx, orderNumber)
	if err != nil {
		return fmt.Errorf("confirm pickup: %w", err)
	}
	if order.Status != domain.OrderArrived {
		return fmt.Errorf("confirm pickup: order %s is %s: %w", orderNumber, order.Status, ErrNotArrived)
	}

	if err := s.store.UpdateStatus(ctx, orderNumber, domain.OrderCollected, time.Now()); err != nil {
		return fmt.Errorf("confirm pickup: %w", err)
	}

	data, err := LoadPlanningData(ctx, s.catalog)
	if err != nil {
		return fmt.Errorf("confirm pickup: %w", err)
	}
	sp := data.NearestServicePoint(order.Delivery)
	if sp == nil {
		return fmt.Errorf("confirm pickup: order %s: no service points: %w", orderNumber, ErrNoPath)
	}

	home, err := FindPath(order.Delivery, sp.Location, data.Zones)
	if err != nil {
		return fmt.Errorf("confirm pickup: order %s: %w", orderNumber, err)
	}

	droneID := order.AssignedDroneID
	if droneID == "" {
		droneID = defaultDroneID
	}
	if err := s.sim.StartFlight(droneID, home, orderNumber); err != nil {
		return fmt.Errorf("confirm pickup: order %s: %w", orderNumber, err)
	}

	s.logger.Printf("orders: pickup confirmed order=%s drone=%s returning", orderNumber, droneID)
	return nil
}

// CancelOrder terminates an order and stops any flight serving it.
func (s *OrderService) CancelOrder(ctx context.Context, orderNumber string) error {
	order, err := s.store.GetByNumber(ctx, orderNumber)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	if order.Status == domain.OrderCompleted || order.Status == domain.OrderCancelled {
		return fmt.Errorf("cancel order: order %s already %s", orderNumber, order.Status)
	}

	if err := s.store.UpdateStatus(ctx, orderNumber, domain.OrderCancelled, time.Now()); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	if order.AssignedDroneID != "" {
		s.sim.StopFlight(order.AssignedDroneID)
	}

	s.logger.Printf("orders: cancelled order=%s", orderNumber)
	return nil
}

// HandleStatusChange applies a simulator update to the stored order:
// ARRIVED marks the delivery at the customer, RETURNED completes the order.
// Other statuses carry no lifecycle meaning.
func (s *OrderService) HandleStatusChange(ctx context.Context, u PositionUpdate) {
	if u.OrderNumber == "" {
		return
	}

	var next domain.OrderStatus
	switch u.Status {
	case StatusArrived:
		next = domain.OrderArrived
	case StatusReturned:
		next = domain.OrderCompleted
	default:
		return
	}

	if err := s.store.UpdateStatus(ctx, u.OrderNumber, next, u.Timestamp); err != nil {
		s.logger.Printf("orders: status bridge failed order=%s status=%s err=%v", u.OrderNumber, next, err)
		return
	}
	s.logger.Printf("orders: status order=%s status=%s drone=%s", u.OrderNumber, next, u.DroneID)
}
