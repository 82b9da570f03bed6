package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DroneAttr enumerates the queryable drone attributes. Each value maps to a
// typed accessor resolved at compile time; there is deliberately no
// reflective lookup by field name.
type DroneAttr int

const (
	AttrID DroneAttr = iota
	AttrName
	AttrCooling
	AttrHeating
	AttrCapacity
	AttrMaxMoves
	AttrCostInitial
	AttrCostPerMove
	AttrCostFinal
)

var droneAttrNames = map[string]DroneAttr{
	"id":          AttrID,
	"name":        AttrName,
	"cooling":     AttrCooling,
	"heating":     AttrHeating,
	"capacity":    AttrCapacity,
	"maxMoves":    AttrMaxMoves,
	"costInitial": AttrCostInitial,
	"costPerMove": AttrCostPerMove,
	"costFinal":   AttrCostFinal,
}

// ParseDroneAttr resolves an attribute name from the query surface.
func ParseDroneAttr(name string) (DroneAttr, error) {
	attr, ok := droneAttrNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown drone attribute %q", name)
	}
	return attr, nil
}

// Value returns the attribute's typed value for a drone.
func (a DroneAttr) Value(d *Drone) any {
	switch a {
	case AttrID:
		return d.ID
	case AttrName:
		return d.Name
	case AttrCooling:
		return d.Capability.Cooling
	case AttrHeating:
		return d.Capability.Heating
	case AttrCapacity:
		return d.Capability.Capacity
	case AttrMaxMoves:
		return d.Capability.MaxMoves
	case AttrCostInitial:
		return d.Capability.CostInitial
	case AttrCostPerMove:
		return d.Capability.CostPerMove
	case AttrCostFinal:
		return d.Capability.CostFinal
	default:
		return nil
	}
}

// Matches compares a drone's attribute against a query string. Strings and
// booleans compare case-insensitively; numbers compare by parsed value.
func (a DroneAttr) Matches(d *Drone, query string) bool {
	switch v := a.Value(d).(type) {
	case string:
		return strings.EqualFold(v, query)
	case bool:
		want, err := strconv.ParseBool(strings.ToLower(query))
		return err == nil && v == want
	case int:
		want, err := strconv.Atoi(query)
		return err == nil && v == want
	case float64:
		want, err := strconv.ParseFloat(query, 64)
		return err == nil && v == want
	default:
		return false
	}
}
