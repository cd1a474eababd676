package resetorders

import (
	"context"
	"net/http"

	"github.com/corray333/order-management/internal/transport/http/v1/respond"
)

// service is an interface for the service layer.
type service interface {
	Reset(ctx context.Context) error
}

// ResetOrders wipes every order at the authority and clears the cache.
func ResetOrders(w http.ResponseWriter, r *http.Request, service service) {
	if err := service.Reset(r.Context()); err != nil {
		respond.Err(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "reset complete"})
}
