package services

import (
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"errors"
	"fmt"
	"log"
)

// ErrNoEligibleDrone marks a planning pass that found no drone able to serve
// the given dispatches.
var ErrNoEligibleDrone = errors.New("no eligible drone")

// hoverDuration is the number of repeated waypoints appended after each
// delivery point, one simulated second of hovering per repetition.
const hoverDuration = 3

// Planner builds routes over a reference-data snapshot. Planning is a
// one-shot synchronous computation with no side effects beyond logging.
type Planner struct {
	logger *log.Logger
}

func NewPlanner(logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.Default()
	}
	return &Planner{logger: logger}
}

// PlanRoutes greedily packs dispatches onto drones. Each dispatch goes to
// the first eligible unused drone at its nearest service point, falling back
// to the other service points in turn; once a drone takes its first
// dispatch, later dispatches sharing the same nearest service point are
// folded into the route while the accumulated estimate stays under the
// drone's move budget. Each drone serves at most one route per pass.
// Unassignable dispatches are dropped with a log line.
func (p *Planner) PlanRoutes(data *PlanningData, dispatches []*domain.DispatchRequest) []*domain.PlannedRoute {
	usedDrones := make(map[string]bool)
	assigned := make(map[string]bool)

	var routes []*domain.PlannedRoute
	for i, dispatch := range dispatches {
		if assigned[dispatch.ID] {
			continue
		}

		nearest := data.NearestServicePoint(dispatch.Delivery)
		if nearest == nil {
			p.logger.Printf("planner: dispatch dropped id=%s reason=no-service-points", dispatch.ID)
			continue
		}

		route := p.assign(data, nearest, dispatch, usedDrones)
		if route == nil {
			for _, other := range data.ServicePoints {
				if other.ID == nearest.ID {
					continue
				}
				if route = p.assign(data, other, dispatch, usedDrones); route != nil {
					break
				}
			}
		}
		if route == nil {
			p.logger.Printf("planner: dispatch dropped id=%s reason=no-eligible-drone", dispatch.ID)
			continue
		}

		assigned[dispatch.ID] = true
		usedDrones[route.Drone.ID] = true

		// Accumulates one-way estimates against a round-trip budget; the
		// admission stays loose on purpose.
		cum := estimatedMoves(route.ServicePoint.Location, dispatch.Delivery)
		for _, other := range dispatches[i+1:] {
			if assigned[other.ID] {
				continue
			}
			otherNearest := data.NearestServicePoint(other.Delivery)
			if otherNearest == nil || otherNearest.ID != route.ServicePoint.ID {
				continue
			}
			otherEst := estimatedMoves(route.ServicePoint.Location, other.Delivery)
			if cum+otherEst*2 >= route.Drone.Capability.MaxMoves {
				continue
			}
			if !eligible(route.Drone, other, otherEst) {
				continue
			}

			route.Dispatches = append(route.Dispatches, other)
			assigned[other.ID] = true
			cum += otherEst
		}

		routes = append(routes, route)
	}

	return routes
}

// assign finds the first eligible unused drone at the service point, in
// association order.
func (p *Planner) assign(data *PlanningData, sp *domain.ServicePoint, dispatch *domain.DispatchRequest, used map[string]bool) *domain.PlannedRoute {
	est := estimatedMoves(sp.Location, dispatch.Delivery)

	for _, drone := range data.DronesAt(sp.ID) {
		if used[drone.ID] {
			continue
		}
		if !admissible(drone, est) {
			continue
		}
		if !eligible(drone, dispatch, est) {
			continue
		}
		return &domain.PlannedRoute{
			Drone:        drone,
			ServicePoint: sp,
			Dispatches:   []*domain.DispatchRequest{dispatch},
		}
	}
	return nil
}

// PlanSingleDrone builds one continuous tour: the service point minimizing
// total distance to all dispatches, served by one drone eligible for every
// dispatch.
func (p *Planner) PlanSingleDrone(data *PlanningData, dispatches []*domain.DispatchRequest) (*domain.PlannedRoute, error) {
	if len(dispatches) == 0 {
		return nil, fmt.Errorf("plan single drone: no dispatches: %w", ErrNoEligibleDrone)
	}

	var best *domain.ServicePoint
	bestTotal := 0.0
	for _, sp := range data.ServicePoints {
		total := 0.0
		for _, d := range dispatches {
			total += geo.Distance(sp.Location, d.Delivery)
		}
		if best == nil || total < bestTotal {
			best = sp
			bestTotal = total
		}
	}
	if best == nil {
		return nil, fmt.Errorf("plan single drone: no service points: %w", ErrNoEligibleDrone)
	}

	for _, drone := range data.DronesAt(best.ID) {
		ok := true
		for _, dispatch := range dispatches {
			est := estimatedMoves(best.Location, dispatch.Delivery)
			if !admissible(drone, est) || !eligible(drone, dispatch, est) {
				ok = false
				break
			}
		}
		if ok {
			return &domain.PlannedRoute{
				Drone:        drone,
				ServicePoint: best,
				Dispatches:   append([]*domain.DispatchRequest(nil), dispatches...),
			}, nil
		}
	}

	return nil, fmt.Errorf("plan single drone: service point %d: %w", best.ID, ErrNoEligibleDrone)
}

// GenerateDronePath materializes a planned route: greedy nearest-neighbor
// sequencing from the service point, one pathfinder call per leg, hover
// repetitions after each delivery, and a final return leg to base. A
// dispatch whose leg cannot be built is skipped; a route completing zero
// dispatches is an error.
func (p *Planner) GenerateDronePath(data *PlanningData, route *domain.PlannedRoute) (*domain.DronePath, error) {
	current := route.ServicePoint.Location
	remaining := append([]*domain.DispatchRequest(nil), route.Dispatches...)

	var flat domain.FlightPath
	var completed []*domain.DispatchRequest

	for len(remaining) > 0 {
		next := 0
		for i := 1; i < len(remaining); i++ {
			if geo.Distance(current, remaining[i].Delivery) < geo.Distance(current, remaining[next].Delivery) {
				next = i
			}
		}
		dispatch := remaining[next]
		remaining = append(remaining[:next], remaining[next+1:]...)

		leg, err := FindPath(current, dispatch.Delivery, data.Zones)
		if err != nil {
			p.logger.Printf("planner: dispatch skipped id=%s drone=%s err=%v", dispatch.ID, route.Drone.ID, err)
			continue
		}

		flat = concatLeg(flat, leg)
		flat = AppendHover(flat)
		completed = append(completed, dispatch)
		current = leg[len(leg)-1].Position
	}

	if len(completed) == 0 {
		return nil, fmt.Errorf("generate drone path: drone %s completed no dispatches: %w", route.Drone.ID, ErrNoPath)
	}

	returnLeg, err := FindPath(current, route.ServicePoint.Location, data.Zones)
	if err != nil {
		return nil, fmt.Errorf("generate drone path: drone %s return leg: %w", route.Drone.ID, err)
	}
	flat = concatLeg(flat, returnLeg)

	return &domain.DronePath{
		DroneID: route.Drone.ID,
		Legs:    splitLegs(flat, completed),
	}, nil
}

// PathToDelivery builds the scheduler's outbound path: from the service
// point nearest the delivery to the delivery itself, hover repetitions
// included.
func (p *Planner) PathToDelivery(data *PlanningData, delivery geo.Position) (domain.FlightPath, *domain.ServicePoint, error) {
	sp := data.NearestServicePoint(delivery)
	if sp == nil {
		return nil, nil, fmt.Errorf("path to delivery: no service points: %w", ErrNoPath)
	}

	path, err := FindPath(sp.Location, delivery, data.Zones)
	if err != nil {
		return nil, nil, fmt.Errorf("path to delivery: %w", err)
	}
	return AppendHover(path), sp, nil
}

// AppendHover repeats the path's last waypoint to encode the post-delivery
// hover. Never call it on a path that already carries its hovers, such as
// one replayed from the cache.
func AppendHover(path domain.FlightPath) domain.FlightPath {
	if len(path) == 0 {
		return path
	}
	last := path[len(path)-1]
	for i := 0; i < hoverDuration; i++ {
		path = append(path, last)
	}
	return path
}

// concatLeg appends a leg to the flat path, dropping the shared endpoint.
func concatLeg(flat domain.FlightPath, leg domain.FlightPath) domain.FlightPath {
	if len(flat) > 0 && len(leg) > 0 {
		leg = leg[1:]
	}
	return append(flat, leg...)
}

// splitLegs cuts the flat path back into per-dispatch legs at hover
// boundaries, plus a trailing return leg with no dispatch id. Adjacent legs
// share their boundary waypoint so move counts add up to len(flat)-1.
func splitLegs(flat domain.FlightPath, completed []*domain.DispatchRequest) []domain.DeliveryLeg {
	var legs []domain.DeliveryLeg

	legStart := 0
	dispatchIdx := 0
	for i := 1; i < len(flat) && dispatchIdx < len(completed); i++ {
		if !domain.IsHoverPair(flat[i-1], flat[i]) {
			continue
		}
		if i+1 < len(flat) && domain.IsHoverPair(flat[i], flat[i+1]) {
			continue
		}
		legs = append(legs, domain.DeliveryLeg{
			DispatchID: completed[dispatchIdx].ID,
			Path:       flat[legStart : i+1],
		})
		dispatchIdx++
		legStart = i
	}

	legs = append(legs, domain.DeliveryLeg{Path: flat[legStart:]})
	return legs
}
