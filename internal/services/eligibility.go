package services

import (
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"math"
)

// estimatedMoves approximates the moves to fly from one position to another:
// straight-line steps inflated 1.5x for detour overhead. It is used for
// admission control only, never for path construction, so a realized
// zone-avoiding path may cost more than the estimate.
func estimatedMoves(from, to geo.Position) int {
	return int(math.Ceil(geo.Distance(from, to) / geo.StepSize * 1.5))
}

// eligible reports whether a drone may serve a dispatch departing from the
// given service point. estMoves is the one-way estimate from that service
// point to the delivery.
func eligible(d *domain.Drone, dispatch *domain.DispatchRequest, estMoves int) bool {
	req := dispatch.Requirements

	if req.Capacity != nil && d.Capability.Capacity < *req.Capacity {
		return false
	}
	if req.Cooling != nil && *req.Cooling && !d.Capability.Cooling {
		return false
	}
	if req.Heating != nil && *req.Heating && !d.Capability.Heating {
		return false
	}

	if dispatch.TimeQualified() {
		day, at, err := dispatch.When()
		if err != nil {
			return false
		}
		if !d.AvailableAt(day, at) {
			return false
		}
	}

	if req.MaxCost != nil {
		cost := d.Capability.CostInitial + d.Capability.CostFinal +
			d.Capability.CostPerMove*float64(estMoves)
		if cost > *req.MaxCost {
			return false
		}
	}

	return true
}

// admissible reports whether the estimated round trip fits the drone's move
// budget.
func admissible(d *domain.Drone, estMoves int) bool {
	return estMoves*2 < d.Capability.MaxMoves
}
