package deleteorder

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/corray333/order-management/internal/transport/http/v1/respond"
)

// service is an interface for the service layer.
type service interface {
	DeleteOrder(ctx context.Context, id int64) error
}

// DeleteOrder removes an order. The cache entry survives until the
// authority confirms the deletion.
func DeleteOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{
			Error:   "invalid_id",
			Message: "order id must be an integer",
		})

		return
	}

	if err := service.DeleteOrder(r.Context(), id); err != nil {
		respond.Err(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
