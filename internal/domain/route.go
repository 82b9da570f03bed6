package domain

import (
	"drone-dispatch-service/internal/geo"
	"math"
)

// FixedAltitude is the altitude carried on every waypoint. It is preserved
// for wire compatibility and never interpreted.
const FixedAltitude = 0.0

// hoverTolerance bounds the coordinate difference under which two
// consecutive waypoints count as the same hover point.
const hoverTolerance = 1e-7

// Waypoint is a position plus the fixed carried altitude.
type Waypoint struct {
	Position geo.Position
	Alt      float64
}

// FlightPath is an ordered sequence of waypoints. Deliberately duplicated
// consecutive points encode stationary hover intervals, one simulated second
// per repetition.
type FlightPath []Waypoint

// NewFlightPath wraps raw positions into waypoints at the fixed altitude.
func NewFlightPath(positions []geo.Position) FlightPath {
	path := make(FlightPath, 0, len(positions))
	for _, p := range positions {
		path = append(path, Waypoint{Position: p, Alt: FixedAltitude})
	}
	return path
}

// IsHoverPair reports whether two waypoints are duplicates encoding a hover.
func IsHoverPair(a, b Waypoint) bool {
	return math.Abs(a.Position.Lng-b.Position.Lng) < hoverTolerance &&
		math.Abs(a.Position.Lat-b.Position.Lat) < hoverTolerance
}

// PlannedRoute assigns an ordered set of dispatches to one drone flying from
// one service point. It lives for a single planning pass and is never
// persisted.
type PlannedRoute struct {
	Drone        *Drone
	ServicePoint *ServicePoint
	Dispatches   []*DispatchRequest
}

// DeliveryLeg is the slice of a flight path serving one dispatch. The final
// return-to-base leg has an empty DispatchID.
type DeliveryLeg struct {
	DispatchID string
	Path       FlightPath
}

// DronePath is a materialized route: the legs one drone flies in sequence.
type DronePath struct {
	DroneID string
	Legs    []DeliveryLeg
}

// Moves counts the path moves across all legs, (len(leg) - 1) per leg.
func (p *DronePath) Moves() int {
	moves := 0
	for _, leg := range p.Legs {
		if len(leg.Path) > 0 {
			moves += len(leg.Path) - 1
		}
	}
	return moves
}

// Cost prices a route for the given capability:
// costInitial + moves * costPerMove + costFinal.
func (p *DronePath) Cost(cap Capability) float64 {
	return cap.CostInitial + float64(p.Moves())*cap.CostPerMove + cap.CostFinal
}
