package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corray333/order-management/internal/service/models/lineitem"
	"github.com/corray333/order-management/internal/service/models/money"
	"github.com/corray333/order-management/internal/service/models/order"
	"github.com/corray333/order-management/internal/service/models/status"
)

func sampleOrder(t *testing.T, id int64, st status.Status) order.Order {
	t.Helper()

	pen, err := lineitem.New("Pen", 3, money.MustFromCents(150))
	require.NoError(t, err)
	mug, err := lineitem.New("Mug", 1, money.MustFromCents(725))
	require.NoError(t, err)

	o := order.Order{
		ID:           id,
		CustomerName: "Alice",
		Address:      "12 Oak St",
		Items:        []lineitem.LineItem{pen, mug},
		Status:       st,
	}
	o.RecalculateTotal()

	return o
}

func newLoaded(t *testing.T, orders ...order.Order) *Store {
	t.Helper()
	s := New()
	s.Load(orders)

	return s
}

func TestLoadReplacesCache(t *testing.T) {
	s := newLoaded(t, sampleOrder(t, 1, status.Pending), sampleOrder(t, 2, status.Shipped))
	require.Equal(t, 2, s.Len())

	s.Load([]order.Order{sampleOrder(t, 3, status.Pending)})
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get(1)
	assert.False(t, ok)
	_, ok = s.Get(3)
	assert.True(t, ok)
}

func TestLoadRecomputesTotals(t *testing.T) {
	o := sampleOrder(t, 1, status.Pending)
	o.Total = money.MustFromCents(99999) // stale remote total

	s := newLoaded(t, o)

	cached, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "11.75", cached.Total.String())
}

func TestFilterByStatusIsRestartable(t *testing.T) {
	s := newLoaded(t,
		sampleOrder(t, 1, status.Pending),
		sampleOrder(t, 2, status.Shipped),
		sampleOrder(t, 3, status.Pending),
	)

	pending, err := s.FilterByStatus("Pending")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, err := s.FilterByStatus(FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// The view is recomputed from the current cache state on each call,
	// not a one-shot cursor.
	_, err = s.BeginStatusChange(1, status.Shipped)
	require.NoError(t, err)

	pending, err = s.FilterByStatus("Pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = s.FilterByStatus("NoSuchStatus")
	assert.ErrorIs(t, err, status.ErrInvalidStatus)
}

func TestSnapshotsDoNotAliasCache(t *testing.T) {
	s := newLoaded(t, sampleOrder(t, 1, status.Pending))

	all := s.All()
	require.Len(t, all, 1)
	all[0].Items[0].Name = "Tampered"

	cached, _ := s.Get(1)
	assert.Equal(t, "Pen", cached.Items[0].Name)
}

func TestOptimisticConfirm(t *testing.T) {
	s := newLoaded(t, sampleOrder(t, 1, status.Pending))

	prior, err := s.BeginStatusChange(1, status.Shipped)
	require.NoError(t, err)
	assert.Equal(t, status.Pending, prior)

	// Readers already see the optimistic value.
	cached, _ := s.Get(1)
	assert.Equal(t, status.Shipped, cached.Status)
	assert.True(t, s.InFlight(1))

	s.ConfirmStatusChange(1)
	assert.False(t, s.InFlight(1))

	cached, _ = s.Get(1)
	assert.Equal(t, status.Shipped, cached.Status)
}

func TestOptimisticRollbackRoundTrip(t *testing.T) {
	s := newLoaded(t, sampleOrder(t, 1, status.Pending))

	prior, err := s.BeginStatusChange(1, status.Shipped)
	require.NoError(t, err)

	s.RollbackStatusChange(1)

	cached, _ := s.Get(1)
	assert.Equal(t, prior, cached.Status, "status before == status after rollback")
	assert.False(t, s.InFlight(1))
}

func TestSecondChangeFailsFastWhilePending(t *testing.T) {
	s := newLoaded(t, sampleOrder(t, 1, status.Pending))

	_, err := s.BeginStatusChange(1, status.Shipped)
	require.NoError(t, err)

	_, err = s.BeginStatusChange(1, status.Cancelled)
	assert.ErrorIs(t, err, ErrChangeInFlight)

	// A change on a different id is independent.
	s.ApplyRemote(sampleOrder(t, 2, status.Pending))
	_, err = s.BeginStatusChange(2, status.Cancelled)
	assert.NoError(t, err)

	// After the first resolves, a subsequent change is accepted.
	s.ConfirmStatusChange(1)
	_, err = s.BeginStatusChange(1, status.Finished)
	assert.NoError(t, err)
}

func TestBeginStatusChangeRejectsIllegalEdge(t *testing.T) {
	s := newLoaded(t, sampleOrder(t, 1, status.Finished))

	_, err := s.BeginStatusChange(1, status.Shipped)

	var invalid *status.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)

	// Cache untouched, no lock taken.
	cached, _ := s.Get(1)
	assert.Equal(t, status.Finished, cached.Status)
	assert.False(t, s.InFlight(1))
}

func TestBeginStatusChangeUnknownID(t *testing.T) {
	s := New()
	_, err := s.BeginStatusChange(42, status.Shipped)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRollbackAfterAuthoritativeReload(t *testing.T) {
	s := newLoaded(t, sampleOrder(t, 1, status.Pending))

	_, err := s.BeginStatusChange(1, status.Shipped)
	require.NoError(t, err)

	// A full refresh lands while the change is pending; the authority
	// already shows Cancelled. Rollback must not stomp the fresher value.
	s.Load([]order.Order{sampleOrder(t, 1, status.Cancelled)})
	s.RollbackStatusChange(1)

	cached, _ := s.Get(1)
	assert.Equal(t, status.Cancelled, cached.Status)
	assert.False(t, s.InFlight(1))
}

func TestApplyRemoteUpsert(t *testing.T) {
	s := newLoaded(t, sampleOrder(t, 1, status.Pending))

	updated := sampleOrder(t, 1, status.Shipped)
	s.ApplyRemote(updated)
	require.Equal(t, 1, s.Len())

	cached, _ := s.Get(1)
	assert.Equal(t, status.Shipped, cached.Status)

	s.ApplyRemote(sampleOrder(t, 2, status.Pending))
	assert.Equal(t, 2, s.Len())
}

func TestApplyRemoteDiscardsStaleTotal(t *testing.T) {
	o := sampleOrder(t, 1, status.Pending)
	o.Total = money.MustFromCents(1)

	s := New()
	s.ApplyRemote(o)

	cached, _ := s.Get(1)
	assert.Equal(t, "11.75", cached.Total.String())
}

func TestRemove(t *testing.T) {
	s := newLoaded(t,
		sampleOrder(t, 1, status.Pending),
		sampleOrder(t, 2, status.Shipped),
		sampleOrder(t, 3, status.Pending),
	)

	require.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.Equal(t, 2, s.Len())

	// Index stays consistent after the shift.
	cached, ok := s.Get(3)
	require.True(t, ok)
	assert.Equal(t, int64(3), cached.ID)
}

func TestClearReleasesLocks(t *testing.T) {
	s := newLoaded(t, sampleOrder(t, 1, status.Pending))
	_, err := s.BeginStatusChange(1, status.Shipped)
	require.NoError(t, err)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.InFlight(1))
}
