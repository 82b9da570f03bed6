package handlers

import (
	"drone-dispatch-service/internal/api/dto"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/platform/obs"
	"drone-dispatch-service/internal/ports"
	"drone-dispatch-service/internal/services"
	"encoding/json"
	"log"
	"net/http"
)

type PlanHandler struct {
	catalog ports.Catalog
	planner *services.Planner
	logger  *log.Logger
}

func NewPlanHandler(catalog ports.Catalog, planner *services.Planner, logger *log.Logger) *PlanHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &PlanHandler{catalog: catalog, planner: planner, logger: logger}
}

// PlanRoutes packs the posted dispatches onto drones and materializes each
// route. Dispatches that could not be placed or flown come back in
// "dropped".
func (h *PlanHandler) PlanRoutes(w http.ResponseWriter, r *http.Request) {
	defer obs.Timed(h.logger, "plan routes")()

	var req dto.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid plan payload")
		return
	}
	if len(req.Dispatches) == 0 {
		writeBadRequest(w, "at least one dispatch is required")
		return
	}

	data, err := services.LoadPlanningData(r.Context(), h.catalog)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	routes := h.planner.PlanRoutes(data, req.Dispatches)

	resp := dto.PlanResponse{}
	flown := make(map[string]bool)
	for _, route := range routes {
		path, err := h.planner.GenerateDronePath(data, route)
		if err != nil {
			h.logger.Printf("api: route discarded drone=%s err=%v", route.Drone.ID, err)
			continue
		}
		for _, leg := range path.Legs {
			if leg.DispatchID != "" {
				flown[leg.DispatchID] = true
			}
		}
		resp.Routes = append(resp.Routes, dto.NewRouteResponse(route, path))
	}

	for _, d := range req.Dispatches {
		if !flown[d.ID] {
			resp.Dropped = append(resp.Dropped, d.ID)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// PlanTour plans a single-drone tour over all posted dispatches and returns
// it as a GeoJSON LineString.
func (h *PlanHandler) PlanTour(w http.ResponseWriter, r *http.Request) {
	defer obs.Timed(h.logger, "plan tour")()

	var req dto.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid plan payload")
		return
	}
	if len(req.Dispatches) == 0 {
		writeBadRequest(w, "at least one dispatch is required")
		return
	}

	data, err := services.LoadPlanningData(r.Context(), h.catalog)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	route, err := h.planner.PlanSingleDrone(data, req.Dispatches)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var path *domain.DronePath
	if path, err = h.planner.GenerateDronePath(data, route); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTourFeature(route, path))
}
