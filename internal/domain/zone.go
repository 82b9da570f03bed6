package domain

import (
	"drone-dispatch-service/internal/geo"
	"errors"
	"fmt"
)

// ErrOpenRing marks a no-fly zone whose vertex ring is not a closed polygon.
var ErrOpenRing = errors.New("no-fly zone ring must be closed with at least 3 distinct vertices")

// NoFlyZone is a closed polygonal region drones must never enter or cross.
// The altitude band is carried from the upstream catalog but not interpreted:
// every zone is treated as full-height.
type NoFlyZone struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	LowerAlt float64        `json:"lowerAlt"`
	UpperAlt float64        `json:"upperAlt"`
	Ring     []geo.Position `json:"vertices"`
}

// Validate rejects open or degenerate rings. Callers must validate zones
// before handing them to the pathfinder.
func (z *NoFlyZone) Validate() error {
	if len(z.Ring) < 4 {
		return fmt.Errorf("zone %q: %d vertices: %w", z.Name, len(z.Ring), ErrOpenRing)
	}

	first := z.Ring[0]
	last := z.Ring[len(z.Ring)-1]
	if first != last {
		return fmt.Errorf("zone %q: first and last vertices differ: %w", z.Name, ErrOpenRing)
	}

	return nil
}

// Contains reports whether p lies inside the zone.
func (z *NoFlyZone) Contains(p geo.Position) bool {
	return geo.PointInPolygon(z.Ring, p)
}

// Crossed reports whether the segment a-b touches the zone.
func (z *NoFlyZone) Crossed(a, b geo.Position) bool {
	return geo.SegmentCrossesPolygon(a, b, z.Ring)
}
