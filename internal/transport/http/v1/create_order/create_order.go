package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/order-management/internal/service/models/order"
	"github.com/corray333/order-management/internal/transport/http/v1/respond"
)

// service is an interface for the service layer.
type service interface {
	SubmitDraft(ctx context.Context, in order.DraftInput) (order.Order, error)
}

// CreateOrder validates raw form input and submits the draft to the
// authority. Validation failures return the full violation list at once.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	var in order.DraftInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{
			Error:   "invalid_json",
			Message: "failed to decode request body",
		})
		slog.Error("error decoding create order request", "error", err)

		return
	}

	created, err := service.SubmitDraft(r.Context(), in)
	if err != nil {
		respond.Err(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}
