package updatestatus

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/corray333/order-management/internal/service/models/status"
	"github.com/corray333/order-management/internal/transport/http/v1/respond"
)

// service is an interface for the service layer.
type service interface {
	ChangeStatus(ctx context.Context, id int64, to status.Status) error
}

type request struct {
	Status string `json:"status"`
}

// UpdateStatus applies a status transition to one order. The workflow
// rejects illegal edges before anything is sent to the authority.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{
			Error:   "invalid_id",
			Message: "order id must be an integer",
		})

		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{
			Error:   "invalid_json",
			Message: "failed to decode request body",
		})

		return
	}

	to, err := status.Parse(req.Status)
	if err != nil {
		respond.Err(w, err)

		return
	}

	if err := service.ChangeStatus(r.Context(), id, to); err != nil {
		respond.Err(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": to.String()})
}
