package handler

import (
	"encoding/json"
	"net/http"

	"dukkan/internal/model"
	"dukkan/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// syncRequest is the cart sync payload. Quantity is absolute, not a
// delta; zero removes the product.
type syncRequest struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Sync handles PUT /api/cart requests.
func (h *CartHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID, err := identity(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, model.ErrCartSyncFailed.Message, h.logger)
		return
	}

	if err := h.service.Sync(r.Context(), userID, req.ProductID, req.ProductName, req.Price, req.Quantity); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"synced": true})
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := identity(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	items, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	// An empty cart serialises as an empty list, never null.
	if items == nil {
		items = []model.CartItem{}
	}

	writeJSON(w, http.StatusOK, items)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, err := identity(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}
