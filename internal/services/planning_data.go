package services

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/ports"
	"fmt"
)

// PlanningData is the reference-data snapshot one planning pass works from.
// It is built once per pass and never mutated afterwards.
type PlanningData struct {
	ServicePoints []*domain.ServicePoint
	Zones         []*domain.NoFlyZone

	// dronesByPoint preserves the upstream association order; the planner
	// picks the first eligible drone in that order.
	dronesByPoint map[int][]*domain.Drone
}

// LoadPlanningData fetches a full snapshot from the catalog. Availability
// windows live on the per-service-point associations upstream, so each
// service point gets its own drone copies with the association's windows
// merged in. Zone rings are validated here; the pathfinder assumes closed
// rings.
func LoadPlanningData(ctx context.Context, catalog ports.Catalog) (*PlanningData, error) {
	drones, err := catalog.Drones(ctx)
	if err != nil {
		return nil, fmt.Errorf("load planning data: drones: %w", err)
	}
	points, err := catalog.ServicePoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("load planning data: service points: %w", err)
	}
	zones, err := catalog.NoFlyZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("load planning data: no-fly zones: %w", err)
	}
	associations, err := catalog.ServicePointDrones(ctx)
	if err != nil {
		return nil, fmt.Errorf("load planning data: associations: %w", err)
	}

	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return nil, fmt.Errorf("load planning data: zone %q: %w", z.Name, err)
		}
	}

	dronesByID := make(map[string]*domain.Drone, len(drones))
	for _, d := range drones {
		dronesByID[d.ID] = d
	}

	byPoint := make(map[int][]*domain.Drone, len(associations))
	for _, assoc := range associations {
		for _, entry := range assoc.Drones {
			base, ok := dronesByID[entry.DroneID]
			if !ok {
				continue
			}
			merged := *base
			merged.Availability = entry.Availability
			byPoint[assoc.ServicePointID] = append(byPoint[assoc.ServicePointID], &merged)
		}
	}

	return &PlanningData{
		ServicePoints: points,
		Zones:         zones,
		dronesByPoint: byPoint,
	}, nil
}

// DronesAt returns the drones associated with a service point, in the
// upstream association order.
func (d *PlanningData) DronesAt(servicePointID int) []*domain.Drone {
	return d.dronesByPoint[servicePointID]
}

// NearestServicePoint returns the service point closest to p, or nil when
// the snapshot has none.
func (d *PlanningData) NearestServicePoint(p geo.Position) *domain.ServicePoint {
	var nearest *domain.ServicePoint
	best := 0.0
	for _, sp := range d.ServicePoints {
		dist := geo.Distance(sp.Location, p)
		if nearest == nil || dist < best {
			nearest = sp
			best = dist
		}
	}
	return nearest
}
