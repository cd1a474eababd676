package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	router := chi.NewMux()
	router.Use(Middleware)
	router.Put("/api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Distinct order ids must collapse into one label value.
	for _, target := range []string{"/api/orders/7/status", "/api/orders/8/status"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, target, nil))
	}

	got := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodPut, "/api/orders/{id}/status", "200"))
	assert.Equal(t, 2.0, got)
}
