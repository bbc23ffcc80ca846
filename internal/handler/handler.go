package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"dukkan/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Identity headers set by the authenticating gateway. The service
// trusts them behind the API-key boundary.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with a stable code and an
// Arabic user-facing message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error to its HTTP status. Unknown
// errors fall back to a generic 500 so internals never leak.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, model.ErrInternal.Message, logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeAuthRequired:
		status = http.StatusUnauthorized
	case model.ErrCodeForbidden:
		status = http.StatusForbidden
	case model.ErrCodeOrderNotFound, model.ErrCodeTripNotFound:
		status = http.StatusNotFound
	case model.ErrCodeActiveTripExists, model.ErrCodeInvalidTransition:
		status = http.StatusConflict
	case model.ErrCodeEmptyCart, model.ErrCodeAddressNotOwned,
		model.ErrCodeShiftNotFound, model.ErrCodeInvalidQuantity,
		model.ErrCodeValidationFailed:
		status = http.StatusBadRequest
	}

	writeError(w, status, domainErr.Code, domainErr.Message, logger)
}

// identity extracts the gateway-authenticated user from the request.
// A missing or malformed header is an authentication failure, not a
// bad request: the gateway always sets it for logged-in users.
func identity(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		return uuid.Nil, model.ErrNotAuthenticated
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.ErrNotAuthenticated
	}
	return userID, nil
}

// requireRole checks the gateway-set role header.
func requireRole(r *http.Request, roles ...model.UserRole) error {
	role := model.UserRole(r.Header.Get(HeaderUserRole))
	for _, allowed := range roles {
		if role == allowed {
			return nil
		}
	}
	return model.ErrForbidden
}
