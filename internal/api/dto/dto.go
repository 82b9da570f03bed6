// Package dto defines the HTTP request and response shapes.
package dto

import (
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"time"
)

type CreateOrderRequest struct {
	CustomerAddress string              `json:"customerAddress"`
	Delivery        geo.Position        `json:"delivery"`
	Requirements    domain.Requirements `json:"requirements"`
}

type OrderResponse struct {
	OrderNumber     string              `json:"orderNumber"`
	CustomerAddress string              `json:"customerAddress"`
	Delivery        geo.Position        `json:"delivery"`
	Requirements    domain.Requirements `json:"requirements"`
	Status          string              `json:"status"`
	AssignedDroneID string              `json:"assignedDroneId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	DispatchedAt    *time.Time          `json:"dispatchedAt,omitempty"`
	ArrivedAt       *time.Time          `json:"arrivedAt,omitempty"`
	CollectedAt     *time.Time          `json:"collectedAt,omitempty"`
	CompletedAt     *time.Time          `json:"completedAt,omitempty"`
}

func NewOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		OrderNumber:     o.OrderNumber,
		CustomerAddress: o.CustomerAddress,
		Delivery:        o.Delivery,
		Requirements:    o.Requirements,
		Status:          string(o.Status),
		AssignedDroneID: o.AssignedDroneID,
		CreatedAt:       o.CreatedAt,
		DispatchedAt:    o.DispatchedAt,
		ArrivedAt:       o.ArrivedAt,
		CollectedAt:     o.CollectedAt,
		CompletedAt:     o.CompletedAt,
	}
}

type PlanRequest struct {
	Dispatches []*domain.DispatchRequest `json:"dispatches"`
}

type LegResponse struct {
	DispatchID string         `json:"dispatchId,omitempty"`
	Path       []geo.Position `json:"path"`
}

type RouteResponse struct {
	DroneID        string        `json:"droneId"`
	ServicePointID int           `json:"servicePointId"`
	Dispatches     []string      `json:"dispatches"`
	Legs           []LegResponse `json:"legs"`
	Moves          int           `json:"moves"`
	Cost           float64       `json:"cost"`
}

type PlanResponse struct {
	Routes  []RouteResponse `json:"routes"`
	Dropped []string        `json:"dropped,omitempty"`
}

func NewRouteResponse(route *domain.PlannedRoute, path *domain.DronePath) RouteResponse {
	resp := RouteResponse{
		DroneID:        route.Drone.ID,
		ServicePointID: route.ServicePoint.ID,
		Moves:          path.Moves(),
		Cost:           path.Cost(route.Drone.Capability),
	}
	for _, d := range route.Dispatches {
		resp.Dispatches = append(resp.Dispatches, d.ID)
	}
	for _, leg := range path.Legs {
		lr := LegResponse{DispatchID: leg.DispatchID}
		for _, wp := range leg.Path {
			lr.Path = append(lr.Path, wp.Position)
		}
		resp.Legs = append(resp.Legs, lr)
	}
	return resp
}

// GeoJSON shapes for the single-drone tour endpoint.
type GeoJSONGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

type GeoJSONFeature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   GeoJSONGeometry `json:"geometry"`
}

type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// NewTourFeature flattens a drone path into one GeoJSON LineString.
func NewTourFeature(route *domain.PlannedRoute, path *domain.DronePath) GeoJSONFeatureCollection {
	var coords [][2]float64
	for i, leg := range path.Legs {
		waypoints := leg.Path
		if i > 0 && len(waypoints) > 0 {
			// Adjacent legs share their boundary waypoint.
			waypoints = waypoints[1:]
		}
		for _, wp := range waypoints {
			coords = append(coords, [2]float64{wp.Position.Lng, wp.Position.Lat})
		}
	}

	return GeoJSONFeatureCollection{
		Type: "FeatureCollection",
		Features: []GeoJSONFeature{{
			Type: "Feature",
			Properties: map[string]any{
				"droneId":        route.Drone.ID,
				"servicePointId": route.ServicePoint.ID,
				"moves":          path.Moves(),
				"cost":           path.Cost(route.Drone.Capability),
			},
			Geometry: GeoJSONGeometry{Type: "LineString", Coordinates: coords},
		}},
	}
}

type FlightStartRequest struct {
	OrderNumber string         `json:"orderNumber,omitempty"`
	Path        []geo.Position `json:"path"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
