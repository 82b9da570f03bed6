package handlers

import (
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/ports"
	"log"
	"net/http"
)

type DroneHandler struct {
	catalog ports.Catalog
	logger  *log.Logger
}

func NewDroneHandler(catalog ports.Catalog, logger *log.Logger) *DroneHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &DroneHandler{catalog: catalog, logger: logger}
}

// List returns the drone catalog, optionally filtered by a typed attribute
// query: GET /drones?attr=cooling&value=true.
func (h *DroneHandler) List(w http.ResponseWriter, r *http.Request) {
	drones, err := h.catalog.Drones(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	attrName := r.URL.Query().Get("attr")
	if attrName == "" {
		writeJSON(w, http.StatusOK, drones)
		return
	}

	attr, err := domain.ParseDroneAttr(attrName)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	value := r.URL.Query().Get("value")

	var matched []*domain.Drone
	for _, d := range drones {
		if attr.Matches(d, value) {
			matched = append(matched, d)
		}
	}
	writeJSON(w, http.StatusOK, matched)
}
