package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/order-management/internal/dal/remote"
	"github.com/corray333/order-management/internal/service/models/order"
	"github.com/corray333/order-management/internal/service/models/status"
	"github.com/corray333/order-management/internal/service/store"
)

// ErrorResponse is the uniform error shape of the v1 API.
type ErrorResponse struct {
	Error      string            `json:"error"`
	Message    string            `json:"message,omitempty"`
	Violations []order.Violation `json:"violations,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Err maps a core error onto the taxonomy-driven HTTP shape so every
// handler renders failures the same way.
func Err(w http.ResponseWriter, err error) {
	var violations order.Violations
	if errors.As(err, &violations) {
		JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:      "validation_failed",
			Message:    "order input is invalid",
			Violations: violations,
		})

		return
	}

	var invalid *status.InvalidTransitionError
	if errors.As(err, &invalid) {
		JSON(w, http.StatusConflict, ErrorResponse{Error: "invalid_transition", Message: invalid.Error()})

		return
	}

	var rejection *remote.RejectionError
	if errors.As(err, &rejection) {
		// Pass the authority's verdict through verbatim, 403 included.
		JSON(w, rejection.StatusCode, ErrorResponse{Error: "rejected", Message: rejection.Message})

		return
	}

	switch {
	case errors.Is(err, status.ErrInvalidStatus):
		JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_status", Message: err.Error()})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, remote.ErrNotFound):
		JSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, store.ErrChangeInFlight):
		JSON(w, http.StatusConflict, ErrorResponse{Error: "change_in_flight", Message: err.Error()})
	case errors.Is(err, remote.ErrConflict):
		JSON(w, http.StatusConflict, ErrorResponse{Error: "conflict", Message: err.Error()})
	case remote.IsTransient(err):
		JSON(w, http.StatusBadGateway, ErrorResponse{Error: "transient_failure", Message: err.Error()})
	default:
		JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: err.Error()})
	}
}
