package store

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/corray333/order-management/internal/metrics"
	"github.com/corray333/order-management/internal/service/models/order"
	"github.com/corray333/order-management/internal/service/models/status"
)

// FilterAll selects every order regardless of status.
const FilterAll = "All"

var (
	ErrNotFound       = errors.New("order not found in cache")
	ErrChangeInFlight = errors.New("another status change is in flight for this order")
)

// pendingChange records one optimistic status change awaiting the
// authority's verdict.
type pendingChange struct {
	prior  status.Status
	target status.Status
}

// Store is the client-side cache of orders known from the remote authority.
// It owns the canonical in-memory copy; callers get clones. Optimistic
// status changes lock their order id until confirmed or rolled back, so at
// most one change per id is ever in flight.
type Store struct {
	mu       sync.RWMutex
	orders   []order.Order
	index    map[int64]int
	inflight map[int64]pendingChange
}

// New creates an empty store.
func New() *Store {
	return &Store{
		index:    make(map[int64]int),
		inflight: make(map[int64]pendingChange),
	}
}

// Load replaces the whole cache with a fresh authoritative snapshot. Entry
// order is preserved for display only. Totals are recomputed from the items
// so a stale remote total can never enter the cache. In-flight locks for
// ids that survived the reload are kept; locks for vanished ids are
// released.
func (s *Store) Load(orders []order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]order.Order, len(orders))
	s.index = make(map[int64]int, len(orders))
	for i, o := range orders {
		normalized := o.Clone()
		normalized.RecalculateTotal()
		s.orders[i] = normalized
		s.index[o.ID] = i
	}

	for id := range s.inflight {
		if _, ok := s.index[id]; !ok {
			delete(s.inflight, id)
		}
	}

	metrics.OrdersCached.Set(float64(len(s.orders)))
}

// Clear empties the cache and releases every in-flight lock. Used on reset
// and logout.
func (s *Store) Clear() {
	s.Load(nil)
}

// Len returns the number of cached orders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.orders)
}

// Get returns a clone of one cached order.
func (s *Store) Get(id int64) (order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return order.Order{}, false
	}

	return s.orders[i].Clone(), true
}

// All returns a snapshot of every cached order in display order.
func (s *Store) All() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(func(order.Order) bool { return true })
}

// FilterByStatus returns a snapshot of the orders matching the filter,
// which is either FilterAll or a status label. The snapshot is recomputed
// from the current cache on every call.
func (s *Store) FilterByStatus(filter string) ([]order.Order, error) {
	if filter == FilterAll || filter == "" {
		return s.All(), nil
	}

	wanted, err := status.Parse(filter)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(func(o order.Order) bool { return o.Status == wanted }), nil
}

// snapshot clones matching orders. Callers must hold at least a read lock.
func (s *Store) snapshot(match func(order.Order) bool) []order.Order {
	out := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if match(o) {
			out = append(out, o.Clone())
		}
	}

	return out
}

// ApplyRemote merges one authoritative record into the cache, appending it
// if unknown. The total is recomputed from the items; a disagreeing remote
// total is logged and discarded as stale display data.
func (s *Store) ApplyRemote(o order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := o.Clone()
	computed := order.SumItems(normalized.Items)
	if normalized.Total != computed {
		slog.Warn("remote order total disagrees with its items, keeping computed sum",
			"order_id", o.ID,
			"remote_total", normalized.Total.String(),
			"computed_total", computed.String(),
		)
	}
	normalized.Total = computed

	if i, ok := s.index[o.ID]; ok {
		s.orders[i] = normalized
	} else {
		s.index[o.ID] = len(s.orders)
		s.orders = append(s.orders, normalized)
	}

	metrics.OrdersCached.Set(float64(len(s.orders)))
}

// Remove drops an order from the cache. Intended to be called only after
// the authority confirmed the deletion (or reported the order gone).
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}

	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	delete(s.index, id)
	delete(s.inflight, id)
	for j := i; j < len(s.orders); j++ {
		s.index[s.orders[j].ID] = j
	}

	metrics.OrdersCached.Set(float64(len(s.orders)))

	return true
}

// BeginStatusChange validates the transition against the workflow and, if
// legal, applies it optimistically and locks the id. It returns the status
// the order had before the change. A second change on a locked id fails
// fast with ErrChangeInFlight so it cannot be computed against a status the
// first change is about to overwrite.
func (s *Store) BeginStatusChange(id int64, to status.Status) (status.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return "", ErrNotFound
	}
	if _, locked := s.inflight[id]; locked {
		return "", ErrChangeInFlight
	}

	next, err := s.orders[i].Transition(to)
	if err != nil {
		return "", err
	}

	prior := s.orders[i].Status
	s.orders[i] = next
	s.inflight[id] = pendingChange{prior: prior, target: to}

	return prior, nil
}

// ConfirmStatusChange releases the lock, keeping the optimistic value that
// the authority just confirmed.
func (s *Store) ConfirmStatusChange(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, id)
}

// RollbackStatusChange restores the pre-change status and releases the
// lock. If an authoritative reload already replaced the optimistic value,
// the fresher data wins and only the lock is released.
func (s *Store) RollbackStatusChange(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.inflight[id]
	if !ok {
		return
	}
	delete(s.inflight, id)

	i, ok := s.index[id]
	if !ok {
		return
	}
	if s.orders[i].Status == pending.target {
		s.orders[i].Status = pending.prior
	}
}

// InFlight reports whether a status change is pending for the id.
func (s *Store) InFlight(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.inflight[id]

	return ok
}
