package services

import (
	"container/heap"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"errors"
	"fmt"
	"math"
)

// ErrNoPath marks a pathfinding attempt that found no zone-free route. It is
// a normal domain outcome: the start or goal may sit inside a zone, or the
// search may exhaust its iteration budget.
var ErrNoPath = errors.New("no flight path found")

// maxIterations caps A* expansions. Typical searches over the operating area
// finish in ~1,500 expansions; exceeding the cap is treated as path not
// found, an accepted recall loss.
const maxIterations = 100000

// gridKey quantizes a position to its step-grid cell. Two positions within
// half a step of the same cell center share a key.
type gridKey struct {
	lng int64
	lat int64
}

func quantize(p geo.Position) gridKey {
	return gridKey{
		lng: int64(math.Round(p.Lng / geo.StepSize)),
		lat: int64(math.Round(p.Lat / geo.StepSize)),
	}
}

// pathNode is one A* search node. Parent pointers reconstruct the path once
// the goal is accepted.
type pathNode struct {
	pos    geo.Position
	parent *pathNode
	g      float64
	f      float64
}

// openSet is a min-heap of pathNodes ordered by f score.
type openSet []*pathNode

func (s openSet) Len() int           { return len(s) }
func (s openSet) Less(i, j int) bool { return s[i].f < s[j].f }
func (s openSet) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s *openSet) Push(x any)        { *s = append(*s, x.(*pathNode)) }
func (s *openSet) Pop() any {
	old := *s
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return node
}

// FindPath runs A* from start to goal over the 16-direction step grid,
// avoiding the given no-fly zones. Every returned pair of consecutive
// waypoints is exactly one step apart and no waypoint or connecting segment
// touches a zone. The search holds no shared state; concurrent calls are
// safe.
//
// The goal test is closeness, not equality: the continuous goal rarely lands
// on a grid cell.
func FindPath(start, goal geo.Position, zones []*domain.NoFlyZone) (domain.FlightPath, error) {
	if insideAnyZone(start, zones) {
		return nil, fmt.Errorf("find path: start (%v, %v) inside no-fly zone: %w",
			start.Lng, start.Lat, ErrNoPath)
	}
	if insideAnyZone(goal, zones) {
		return nil, fmt.Errorf("find path: goal (%v, %v) inside no-fly zone: %w",
			goal.Lng, goal.Lat, ErrNoPath)
	}

	open := &openSet{}
	heap.Init(open)

	closed := make(map[gridKey]bool)
	bestG := make(map[gridKey]float64)

	startNode := &pathNode{pos: start, g: 0, f: geo.Distance(start, goal)}
	heap.Push(open, startNode)
	bestG[quantize(start)] = 0

	// Exploring directions nearest the straight-line bearing first changes
	// which optimal path is found and the typical runtime, never optimality:
	// all edges have equal cost.
	order := directionOrder(bestDirection(start, goal))

	iterations := 0
	for open.Len() > 0 && iterations < maxIterations {
		iterations++

		current := heap.Pop(open).(*pathNode)
		currentKey := quantize(current.pos)

		// Stale open-set entries are dropped lazily.
		if closed[currentKey] {
			continue
		}
		closed[currentKey] = true

		if geo.IsClose(current.pos, goal) {
			return reconstructPath(current), nil
		}

		for _, direction := range order {
			neighbor, err := geo.StepDirection(current.pos, direction)
			if err != nil {
				continue
			}

			neighborKey := quantize(neighbor)
			if closed[neighborKey] {
				continue
			}
			if insideAnyZone(neighbor, zones) {
				continue
			}
			if crossesAnyZone(current.pos, neighbor, zones) {
				continue
			}

			tentativeG := current.g + 1
			if existing, ok := bestG[neighborKey]; ok && tentativeG >= existing {
				continue
			}
			bestG[neighborKey] = tentativeG

			heap.Push(open, &pathNode{
				pos:    neighbor,
				parent: current,
				g:      tentativeG,
				f:      tentativeG + geo.Distance(neighbor, goal),
			})
		}
	}

	return nil, fmt.Errorf("find path: gave up after %d iterations: %w", iterations, ErrNoPath)
}

// bestDirection returns the 16-direction heading closest to the straight
// line from a to b.
func bestDirection(a, b geo.Position) int {
	angle := math.Atan2(b.Lat-a.Lat, b.Lng-a.Lng)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return int(math.Round(angle/(math.Pi/8))) % geo.NumDirections
}

// directionOrder lists all 16 directions starting at best and alternating
// +1/-1 offsets around it.
func directionOrder(best int) [geo.NumDirections]int {
	var order [geo.NumDirections]int

	order[0] = best
	for i := 1; i < geo.NumDirections; i++ {
		offset := (i + 1) / 2
		if i%2 == 1 {
			order[i] = (best + offset) % geo.NumDirections
		} else {
			order[i] = (best - offset + geo.NumDirections) % geo.NumDirections
		}
	}

	return order
}

func insideAnyZone(p geo.Position, zones []*domain.NoFlyZone) bool {
	for _, z := range zones {
		if z.Contains(p) {
			return true
		}
	}
	return false
}

func crossesAnyZone(a, b geo.Position, zones []*domain.NoFlyZone) bool {
	for _, z := range zones {
		if z.Crossed(a, b) {
			return true
		}
	}
	return false
}

func reconstructPath(end *pathNode) domain.FlightPath {
	var reversed []geo.Position
	for node := end; node != nil; node = node.parent {
		reversed = append(reversed, node.pos)
	}

	positions := make([]geo.Position, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		positions = append(positions, reversed[i])
	}

	return domain.NewFlightPath(positions)
}
