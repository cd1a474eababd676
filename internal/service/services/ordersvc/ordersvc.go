package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/corray333/order-management/internal/dal/remote"
	"github.com/corray333/order-management/internal/metrics"
	"github.com/corray333/order-management/internal/service/models/order"
	"github.com/corray333/order-management/internal/service/models/status"
	"github.com/corray333/order-management/internal/service/store"
)

// authority is the narrow contract the core needs from the remote
// order-storage service.
type authority interface {
	ListOrders(ctx context.Context) ([]order.Order, error)
	CreateOrder(ctx context.Context, draft order.Order) (order.Order, error)
	UpdateStatus(ctx context.Context, id int64, to status.Status) error
	DeleteOrder(ctx context.Context, id int64) error
	Reset(ctx context.Context) error
}

// OrderService is the core facade over the client cache and the remote
// authority. Every operation returns typed errors so the presentation
// layer can render failures uniformly.
type OrderService struct {
	store     *store.Store
	authority authority
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = store.New()
	}
	if s.authority == nil {
		panic("ordersvc: authority is required")
	}

	return s
}

// WithStore sets the order cache for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStore(st *store.Store) option {
	return func(s *OrderService) {
		s.store = st
	}
}

// WithAuthority sets the remote authority client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuthority(a authority) option {
	return func(s *OrderService) {
		s.authority = a
	}
}

// Refresh replaces the cache with the authoritative order set.
func (s *OrderService) Refresh(ctx context.Context) error {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "ordersvc.Refresh")
	defer span.End()

	orders, err := s.authority.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh orders: %w", err)
	}

	s.store.Load(orders)

	return nil
}

// GetVisibleOrders returns the cached orders matching the filter, which is
// either store.FilterAll or a status label.
func (s *OrderService) GetVisibleOrders(filter string) ([]order.Order, error) {
	return s.store.FilterByStatus(filter)
}

// SubmitDraft validates raw form input and, if clean, submits the draft to
// the authority and merges the accepted record into the cache. On
// validation failure the full list of violations comes back and nothing is
// submitted.
func (s *OrderService) SubmitDraft(ctx context.Context, in order.DraftInput) (order.Order, error) {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "ordersvc.SubmitDraft")
	defer span.End()

	draft, violations := order.ComposeDraft(in)
	if violations != nil {
		return order.Order{}, violations
	}

	created, err := s.authority.CreateOrder(ctx, draft)
	if err != nil {
		return order.Order{}, fmt.Errorf("authority did not accept the order: %w", err)
	}

	s.store.ApplyRemote(created)
	metrics.OrdersSubmitted.Inc()

	slog.InfoContext(ctx, "order created", "order_id", created.ID, "total", created.Total.String())

	return created, nil
}

// ChangeStatus validates the transition, applies it optimistically, submits
// it to the authority, and reconciles the cache with the outcome. At most
// one change per order id is in flight at any time.
func (s *OrderService) ChangeStatus(ctx context.Context, id int64, to status.Status) error {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "ordersvc.ChangeStatus")
	defer span.End()

	return s.changeStatus(ctx, id, to, false)
}

func (s *OrderService) changeStatus(ctx context.Context, id int64, to status.Status, retried bool) error {
	if _, err := s.store.BeginStatusChange(id, to); err != nil {
		return err
	}

	// The lock must resolve on every path; an abandoned submission would
	// otherwise leave the id stuck.
	confirmed := false
	defer func() {
		if !confirmed {
			s.store.RollbackStatusChange(id)
		}
	}()

	err := s.authority.UpdateStatus(ctx, id, to)
	if err == nil {
		confirmed = true
		s.store.ConfirmStatusChange(id)
		metrics.StatusChanges.WithLabelValues("confirmed").Inc()

		return nil
	}

	switch {
	case errors.Is(err, remote.ErrNotFound):
		// The order vanished remotely; drop it rather than keep showing
		// data the authority no longer has.
		s.store.RollbackStatusChange(id)
		s.store.Remove(id)
		confirmed = true
		metrics.StatusChanges.WithLabelValues("dropped").Inc()

		return fmt.Errorf("order %d no longer exists: %w", id, err)

	case errors.Is(err, remote.ErrConflict) && !retried:
		// Reload the authoritative state and re-derive legality once.
		s.store.RollbackStatusChange(id)
		confirmed = true
		if refreshErr := s.Refresh(ctx); refreshErr != nil {
			metrics.StatusChanges.WithLabelValues("rolled_back").Inc()

			return fmt.Errorf("status change conflicted and reload failed: %w", err)
		}
		slog.InfoContext(ctx, "status change conflicted, retrying against reloaded state", "order_id", id)

		return s.changeStatus(ctx, id, to, true)

	case remote.IsTransient(err):
		metrics.StatusChanges.WithLabelValues("rolled_back").Inc()

		return fmt.Errorf("status change not applied, safe to retry: %w", err)

	default:
		metrics.StatusChanges.WithLabelValues("rejected").Inc()

		return fmt.Errorf("status change rejected: %w", err)
	}
}

// DeleteOrder removes an order at the authority and, only once confirmed,
// from the cache. The local copy is never dropped before confirmation so
// the UI cannot present data as gone while it still exists.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "ordersvc.DeleteOrder")
	defer span.End()

	if err := s.authority.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			// Already gone remotely; reconcile the cache and surface a
			// notice instead of a hard failure.
			s.store.Remove(id)

			return fmt.Errorf("order %d was already deleted: %w", id, err)
		}

		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}

	s.store.Remove(id)
	slog.InfoContext(ctx, "order deleted", "order_id", id)

	return nil
}

// Reset wipes every order at the authority and clears the cache.
func (s *OrderService) Reset(ctx context.Context) error {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "ordersvc.Reset")
	defer span.End()

	if err := s.authority.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset orders: %w", err)
	}

	s.store.Clear()
	slog.InfoContext(ctx, "all orders reset")

	return nil
}
