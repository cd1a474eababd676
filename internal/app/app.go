package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/order-management/internal/dal/remote"
	"github.com/corray333/order-management/internal/service/services/ordersvc"
	"github.com/corray333/order-management/internal/service/store"
	"github.com/corray333/order-management/internal/tracing"
	httptransport "github.com/corray333/order-management/internal/transport/http"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	shutdownTracer func(ctx context.Context) error
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	shutdownTracer := tracing.MustInit()

	authorityClient := remote.MustNewClient()
	orderStore := store.New()

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithStore(orderStore),
		ordersvc.WithAuthority(authorityClient),
	)

	transport := httptransport.NewHTTPTransport(orderSvc)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		shutdownTracer: shutdownTracer,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Prime the cache with the authoritative order set. The server still
	// comes up on failure; the cache stays empty until the next refresh.
	refreshCtx, cancelRefresh := context.WithTimeout(context.Background(), 10*time.Second)
	if err := a.orderSvc.Refresh(refreshCtx); err != nil {
		slog.Error("Initial order refresh failed", "error", err)
	}
	cancelRefresh()

	go func() {
		slog.Info("Starting HTTP server")
		// ErrServerClosed is the normal outcome of Shutdown, not a failure.
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.shutdownTracer(ctx); err != nil {
		slog.Error("Tracer shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
