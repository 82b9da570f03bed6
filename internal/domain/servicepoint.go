package domain

import "drone-dispatch-service/internal/geo"

// ServicePoint is a fixed base drones depart from and return to.
type ServicePoint struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Location geo.Position `json:"location"`
}

// DroneAssignment links a drone to a service point along with the
// availability windows it keeps while stationed there.
type DroneAssignment struct {
	DroneID      string               `json:"id"`
	Availability []AvailabilityWindow `json:"availability"`
}

// ServicePointDrones is the external association between a service point and
// the drones eligible to fly from it. Order is meaningful: the planner tries
// drones in listed order.
type ServicePointDrones struct {
	ServicePointID int               `json:"servicePointId"`
	Drones         []DroneAssignment `json:"drones"`
}
