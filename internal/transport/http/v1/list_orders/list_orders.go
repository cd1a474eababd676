package listorders

import (
	"net/http"

	"github.com/corray333/order-management/internal/service/models/order"
	"github.com/corray333/order-management/internal/service/store"
	"github.com/corray333/order-management/internal/transport/http/v1/respond"
)

// service is an interface for the service layer.
type service interface {
	GetVisibleOrders(filter string) ([]order.Order, error)
}

// ListOrders returns the cached orders, optionally narrowed with the
// ?status= query parameter ("All" or a status label).
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	filter := r.URL.Query().Get("status")
	if filter == "" {
		filter = store.FilterAll
	}

	orders, err := service.GetVisibleOrders(filter)
	if err != nil {
		respond.Err(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}
