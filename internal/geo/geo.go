// Package geo provides the planar geometry primitives the pathfinder and
// route planner are built on. All distances are in degrees over a small
// operating area, so a flat Euclidean model is used throughout; the same
// model feeds the A* heuristic, move estimates, and closeness checks, which
// keeps them mutually consistent.
package geo

import (
	"errors"
	"fmt"
	"math"
)

const (
	// StepSize is the fixed length, in degrees, of a single drone move.
	StepSize = 0.00015

	// CloseThreshold is the distance under which two positions count as the
	// same place. It equals StepSize so a goal is reachable from any
	// adjacent grid cell.
	CloseThreshold = 0.00015

	// NumDirections is the number of headings a drone can move along.
	NumDirections = 16

	// angleTolerance absorbs float error when validating step angles.
	angleTolerance = 1e-9
)

// ErrInvalidAngle is returned by Step for headings that are not one of the
// 16 allowed 22.5° multiples in [0, 360).
var ErrInvalidAngle = errors.New("angle must be a multiple of 22.5 in [0, 360)")

// Position is an immutable (longitude, latitude) pair in degrees.
type Position struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Distance returns the Euclidean distance between two positions in degree
// space.
func Distance(a, b Position) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat
	return math.Sqrt(dx*dx + dy*dy)
}

// IsClose reports whether two positions are within CloseThreshold of each
// other.
func IsClose(a, b Position) bool {
	return Distance(a, b) < CloseThreshold
}

// Step moves one StepSize from start along the given heading. Angles are
// measured mathematically: 0° is east, 90° is north. Only multiples of 22.5°
// in [0, 360) are accepted.
func Step(start Position, angle float64) (Position, error) {
	if angle < 0 || angle >= 360 {
		return Position{}, fmt.Errorf("step: angle %v: %w", angle, ErrInvalidAngle)
	}

	rem := math.Mod(angle, 22.5)
	if math.Abs(rem) > angleTolerance && math.Abs(rem-22.5) > angleTolerance {
		return Position{}, fmt.Errorf("step: angle %v: %w", angle, ErrInvalidAngle)
	}

	rad := angle * math.Pi / 180
	return Position{
		Lng: start.Lng + StepSize*math.Cos(rad),
		Lat: start.Lat + StepSize*math.Sin(rad),
	}, nil
}

// StepDirection moves one step along compass direction 0..15, where
// direction 0 is east and directions count anticlockwise in 22.5°
// increments.
func StepDirection(start Position, direction int) (Position, error) {
	if direction < 0 || direction >= NumDirections {
		return Position{}, fmt.Errorf("step direction: %d out of range [0,%d): %w",
			direction, NumDirections, ErrInvalidAngle)
	}
	return Step(start, float64(direction)*22.5)
}

// PointInPolygon reports whether p lies inside the closed ring (first and
// last vertices equal) using ray casting with the even-odd rule.
//
// The asymmetric comparisons below are load-bearing: `(yp < y1) != (yp < y2)`
// together with `xIntersection > xp` makes ring vertices and boundary points
// classify as inside. Rewriting them symmetrically changes boundary
// behavior.
func PointInPolygon(ring []Position, p Position) bool {
	count := 0

	for i := 0; i < len(ring)-1; i++ {
		x1, y1 := ring[i].Lng, ring[i].Lat
		x2, y2 := ring[i+1].Lng, ring[i+1].Lat

		if (p.Lat < y1) != (p.Lat < y2) {
			xIntersection := x1 + (p.Lat-y1)/(y2-y1)*(x2-x1)
			if xIntersection > p.Lng {
				count++
			}
		}
	}

	return count%2 == 1
}

// SegmentCrossesPolygon reports whether the segment a-b touches the region
// bounded by ring: either endpoint inside, or the segment intersecting any
// ring edge (including collinear overlap).
func SegmentCrossesPolygon(a, b Position, ring []Position) bool {
	if len(ring) < 3 {
		return false
	}

	if PointInPolygon(ring, a) || PointInPolygon(ring, b) {
		return true
	}

	n := len(ring)
	for i := 0; i < n; i++ {
		v1 := ring[i]
		v2 := ring[(i+1)%n]

		if segmentsIntersect(a, b, v1, v2) {
			return true
		}
	}

	return false
}

// segmentsIntersect implements the standard orientation test, with the
// collinear cases resolved by bounding-box containment.
func segmentsIntersect(p1, p2, p3, p4 Position) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// cross returns the cross product of (b-a) x (p-a).
func cross(a, b, p Position) float64 {
	return (p.Lng-a.Lng)*(b.Lat-a.Lat) - (b.Lng-a.Lng)*(p.Lat-a.Lat)
}

// onSegment reports whether p, known to be collinear with a-b, lies within
// the segment's bounding box.
func onSegment(a, b, p Position) bool {
	return p.Lng >= math.Min(a.Lng, b.Lng) && p.Lng <= math.Max(a.Lng, b.Lng) &&
		p.Lat >= math.Min(a.Lat, b.Lat) && p.Lat <= math.Max(a.Lat, b.Lat)
}
