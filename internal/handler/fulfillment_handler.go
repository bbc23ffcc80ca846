package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"dukkan/internal/model"
	"dukkan/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FulfillmentHandler handles order transition and trip HTTP requests.
type FulfillmentHandler struct {
	service service.FulfillmentService
	logger  zerolog.Logger
}

// NewFulfillmentHandler creates a new fulfillment handler.
func NewFulfillmentHandler(service service.FulfillmentService, logger zerolog.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{
		service: service,
		logger:  logger.With().Str("handler", "fulfillment").Logger(),
	}
}

// orderIDFromPath extracts the order ID from /api/orders/{id}/{action}.
func orderIDFromPath(path, action string) (uuid.UUID, bool) {
	rest := strings.TrimPrefix(path, "/api/orders/")
	rest = strings.TrimSuffix(rest, "/"+action)
	if rest == "" || strings.Contains(rest, "/") {
		return uuid.Nil, false
	}
	orderID, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, false
	}
	return orderID, true
}

type assignRequest struct {
	DriverID string `json:"driverId"`
}

// Assign handles POST /api/orders/{id}/assign requests.
func (h *FulfillmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, model.RoleAdmin); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	orderID, ok := orderIDFromPath(r.URL.Path, "assign")
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, model.ErrOrderNotFound.Message, h.logger)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, model.ErrInternal.Message, h.logger)
		return
	}

	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, model.ErrNotOrderDriver.Message, h.logger)
		return
	}

	if err := h.service.AssignDriver(r.Context(), orderID, driverID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.StatusAssigned)})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /api/orders/{id}/cancel requests.
func (h *FulfillmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, model.RoleAdmin); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	orderID, ok := orderIDFromPath(r.URL.Path, "cancel")
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, model.ErrOrderNotFound.Message, h.logger)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, model.ErrInternal.Message, h.logger)
		return
	}

	if err := h.service.CancelOrder(r.Context(), orderID, strings.TrimSpace(req.Reason)); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.StatusCanceled)})
}

// Deliver handles POST /api/orders/{id}/deliver requests.
func (h *FulfillmentHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, model.RoleAdmin, model.RoleDriver); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	orderID, ok := orderIDFromPath(r.URL.Path, "deliver")
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, model.ErrOrderNotFound.Message, h.logger)
		return
	}

	if err := h.service.DeliverOrder(r.Context(), orderID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.StatusDelivered)})
}

type tripRequest struct {
	OrderID   string  `json:"orderId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StartTrip handles POST /api/trips/start requests. The driver is the
// authenticated caller; the one-active-trip rule is enforced below.
func (h *FulfillmentHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	driverID, err := identity(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if err := requireRole(r, model.RoleDriver); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, model.ErrInternal.Message, h.logger)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, model.ErrOrderNotFound.Message, h.logger)
		return
	}

	if err := h.service.StartTrip(r.Context(), orderID, driverID, req.Latitude, req.Longitude); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.StatusInTransit)})
}

// UpdateCoordinates handles PUT /api/trips/coordinates requests.
func (h *FulfillmentHandler) UpdateCoordinates(w http.ResponseWriter, r *http.Request) {
	driverID, err := identity(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if err := requireRole(r, model.RoleDriver); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, model.ErrInternal.Message, h.logger)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, model.ErrTripNotFound.Message, h.logger)
		return
	}

	if err := h.service.UpdateCoordinates(r.Context(), orderID, driverID, req.Latitude, req.Longitude); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}
