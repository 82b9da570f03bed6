package domain

import (
	"drone-dispatch-service/internal/geo"
	"errors"
	"time"
)

// OrderStatus tracks a delivery order through its lifecycle.
type OrderStatus string

const (
	OrderQueued    OrderStatus = "QUEUED"
	OrderInTransit OrderStatus = "IN_TRANSIT"
	OrderArrived   OrderStatus = "ARRIVED"
	OrderCollected OrderStatus = "COLLECTED"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ErrOrderNotFound marks a lookup for an order number that does not exist.
var ErrOrderNotFound = errors.New("order not found")

// Order is a queued delivery. Delivery coordinates are resolved upstream;
// the core never geocodes.
type Order struct {
	OrderNumber     string
	CustomerAddress string
	Delivery        geo.Position
	Requirements    Requirements
	Status          OrderStatus
	AssignedDroneID string
	CreatedAt       time.Time
	DispatchedAt    *time.Time
	ArrivedAt       *time.Time
	CollectedAt     *time.Time
	CompletedAt     *time.Time
}

// Dispatch converts the order into the planner's request shape. Orders carry
// no date/time requirement, so they are availability-exempt.
func (o *Order) Dispatch() *DispatchRequest {
	return &DispatchRequest{
		ID:           o.OrderNumber,
		Delivery:     o.Delivery,
		Requirements: o.Requirements,
	}
}
