package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"dukkan/internal/checkout"
	"dukkan/internal/model"
	"dukkan/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout-related HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// validationResponse carries the complete field-error list so the
// storefront can annotate every failed field in one round trip.
type validationResponse struct {
	Error   string                `json:"error"`
	Message string                `json:"message"`
	Details []checkout.FieldError `json:"details"`
}

// Readiness handles GET /api/checkout/readiness requests. Selections
// not yet made arrive as absent query parameters.
func (h *CheckoutHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	userID, err := identity(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	q := r.URL.Query()

	var addressID *uuid.UUID
	if raw := q.Get("addressId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, model.ErrAddressNotOwned.Message, h.logger)
			return
		}
		addressID = &parsed
	}

	readiness, err := h.service.Readiness(
		r.Context(),
		userID,
		addressID,
		q.Get("shiftId"),
		model.PaymentMethod(q.Get("paymentMethod")),
		q.Get("termsAccepted") == "true",
	)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, readiness)
}

// PlaceOrder handles POST /api/checkout requests.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := identity(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	var input checkout.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, model.ErrInternal.Message, h.logger)
		return
	}

	result, err := h.service.PlaceOrder(r.Context(), userID, input)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, validationResponse{
				Error:   model.ErrCodeValidationFailed,
				Message: "يرجى تصحيح الحقول المحددة",
				Details: validationErr.Fields,
			})
			return
		}
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
