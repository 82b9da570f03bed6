package refdata

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCatalog struct {
	mu    sync.Mutex
	calls int
	drone *domain.Drone
}

func (c *countingCatalog) bump() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingCatalog) Drones(context.Context) ([]*domain.Drone, error) {
	c.bump()
	return []*domain.Drone{c.drone}, nil
}

func (c *countingCatalog) ServicePoints(context.Context) ([]*domain.ServicePoint, error) {
	c.bump()
	return []*domain.ServicePoint{{ID: 1, Name: "base", Location: geo.Position{Lng: -3.192, Lat: 55.946}}}, nil
}

func (c *countingCatalog) NoFlyZones(context.Context) ([]*domain.NoFlyZone, error) {
	c.bump()
	return nil, nil
}

func (c *countingCatalog) ServicePointDrones(context.Context) ([]*domain.ServicePointDrones, error) {
	c.bump()
	return nil, nil
}

func TestSnapshotCatalogCachesWithinTTL(t *testing.T) {
	inner := &countingCatalog{drone: &domain.Drone{ID: "DRONE-001", Name: "Falcon"}}
	snap := NewSnapshotCatalog(inner, time.Hour)

	_, err := snap.Drones(context.Background())
	require.NoError(t, err)

	inner.mu.Lock()
	afterFirst := inner.calls
	inner.mu.Unlock()
	assert.Equal(t, 4, afterFirst, "refresh pulls all four collections once")

	_, err = snap.Drones(context.Background())
	require.NoError(t, err)
	_, err = snap.ServicePoints(context.Background())
	require.NoError(t, err)

	inner.mu.Lock()
	assert.Equal(t, afterFirst, inner.calls, "reads within the TTL must not refetch")
	inner.mu.Unlock()
}

func TestSnapshotCatalogReturnsDeepCopies(t *testing.T) {
	inner := &countingCatalog{drone: &domain.Drone{ID: "DRONE-001", Name: "Falcon"}}
	snap := NewSnapshotCatalog(inner, time.Hour)

	first, err := snap.Drones(context.Background())
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := snap.Drones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Falcon", second[0].Name, "mutating one snapshot must not leak into the next")
}
