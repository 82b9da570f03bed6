package handlers

import (
	"drone-dispatch-service/internal/api/dto"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/services"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type FlightHandler struct {
	sim    *services.Simulator
	logger *log.Logger
}

func NewFlightHandler(sim *services.Simulator, logger *log.Logger) *FlightHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &FlightHandler{sim: sim, logger: logger}
}

// Start launches a drone along a posted path. Conflicts with an active
// flight surface as 409 rather than overriding it.
func (h *FlightHandler) Start(w http.ResponseWriter, r *http.Request) {
	droneID := chi.URLParam(r, "droneId")

	var req dto.FlightStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid flight payload")
		return
	}
	if len(req.Path) == 0 {
		writeBadRequest(w, "a non-empty path is required")
		return
	}

	if err := h.sim.StartFlight(droneID, domain.NewFlightPath(req.Path), req.OrderNumber); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *FlightHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.sim.StopFlight(chi.URLParam(r, "droneId"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *FlightHandler) Position(w http.ResponseWriter, r *http.Request) {
	droneID := chi.URLParam(r, "droneId")
	update, ok := h.sim.Position(droneID)
	if !ok {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "drone " + droneID + " has no flight session"})
		return
	}
	writeJSON(w, http.StatusOK, update)
}
