package handlers

import (
	"drone-dispatch-service/internal/api/dto"
	"drone-dispatch-service/internal/services"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	svc    *services.OrderService
	logger *log.Logger
}

func NewOrderHandler(svc *services.OrderService, logger *log.Logger) *OrderHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &OrderHandler{svc: svc, logger: logger}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid order payload")
		return
	}
	if req.Delivery.Lng == 0 && req.Delivery.Lat == 0 {
		writeBadRequest(w, "delivery coordinates are required")
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), req.CustomerAddress, req.Delivery, req.Requirements)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewOrderResponse(order))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewOrderResponse(order))
}

func (h *OrderHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if err := h.svc.ConfirmPickup(r.Context(), orderNumber); err != nil {
		writeError(w, h.logger, err)
		return
	}

	order, err := h.svc.GetOrder(r.Context(), orderNumber)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewOrderResponse(order))
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if err := h.svc.CancelOrder(r.Context(), orderNumber); err != nil {
		writeError(w, h.logger, err)
		return
	}

	order, err := h.svc.GetOrder(r.Context(), orderNumber)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewOrderResponse(order))
}
