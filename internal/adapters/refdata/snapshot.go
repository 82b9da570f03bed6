package refdata

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/ports"
	"fmt"
	"sync"
	"time"

	"github.com/mohae/deepcopy"
)

// SnapshotCatalog caches a full reference-data snapshot for a TTL and hands
// out deep copies, so no planning pass can mutate data shared with another.
type SnapshotCatalog struct {
	inner ports.Catalog
	ttl   time.Duration

	mu        sync.Mutex
	fetchedAt time.Time

	drones       []*domain.Drone
	points       []*domain.ServicePoint
	zones        []*domain.NoFlyZone
	associations []*domain.ServicePointDrones
}

func NewSnapshotCatalog(inner ports.Catalog, ttl time.Duration) *SnapshotCatalog {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SnapshotCatalog{inner: inner, ttl: ttl}
}

// refresh pulls all four collections when the snapshot is stale. Caller
// holds the lock.
func (c *SnapshotCatalog) refresh(ctx context.Context) error {
	if time.Since(c.fetchedAt) < c.ttl && !c.fetchedAt.IsZero() {
		return nil
	}

	drones, err := c.inner.Drones(ctx)
	if err != nil {
		return fmt.Errorf("snapshot refresh: %w", err)
	}
	points, err := c.inner.ServicePoints(ctx)
	if err != nil {
		return fmt.Errorf("snapshot refresh: %w", err)
	}
	zones, err := c.inner.NoFlyZones(ctx)
	if err != nil {
		return fmt.Errorf("snapshot refresh: %w", err)
	}
	associations, err := c.inner.ServicePointDrones(ctx)
	if err != nil {
		return fmt.Errorf("snapshot refresh: %w", err)
	}

	c.drones = drones
	c.points = points
	c.zones = zones
	c.associations = associations
	c.fetchedAt = time.Now()
	return nil
}

func (c *SnapshotCatalog) Drones(ctx context.Context) ([]*domain.Drone, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	return deepcopy.Copy(c.drones).([]*domain.Drone), nil
}

func (c *SnapshotCatalog) ServicePoints(ctx context.Context) ([]*domain.ServicePoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	return deepcopy.Copy(c.points).([]*domain.ServicePoint), nil
}

func (c *SnapshotCatalog) NoFlyZones(ctx context.Context) ([]*domain.NoFlyZone, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	return deepcopy.Copy(c.zones).([]*domain.NoFlyZone), nil
}

func (c *SnapshotCatalog) ServicePointDrones(ctx context.Context) ([]*domain.ServicePointDrones, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	return deepcopy.Copy(c.associations).([]*domain.ServicePointDrones), nil
}
