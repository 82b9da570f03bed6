package ports

import (
	"context"
	"drone-dispatch-service/internal/domain"
)

// Catalog is the boundary to the external reference-data service. Each
// method returns a whole-collection snapshot; the core never observes
// incremental updates mid-pass.
type Catalog interface {
	Drones(ctx context.Context) ([]*domain.Drone, error)
	ServicePoints(ctx context.Context) ([]*domain.ServicePoint, error)
	NoFlyZones(ctx context.Context) ([]*domain.NoFlyZone, error)
	ServicePointDrones(ctx context.Context) ([]*domain.ServicePointDrones, error)
}
