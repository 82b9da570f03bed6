package ports

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"time"
)

// OrderStore is the boundary to the delivery-order database.
type OrderStore interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByNumber returns one order or domain.ErrOrderNotFound.
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)

	// ListQueued returns QUEUED orders, oldest first.
	ListQueued(ctx context.Context) ([]*domain.Order, error)

	// UpdateStatus transitions an order and stamps the matching timestamp
	// column for the new status.
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, at time.Time) error

	// AssignDrone records which drone is flying the order.
	AssignDrone(ctx context.Context, orderNumber, droneID string) error
}
