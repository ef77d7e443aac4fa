package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-box-office/internal/model"
	"github.com/iliyamo/cinema-box-office/internal/repository"
)

// purchaseTicket is a test helper creating a PENDING/PURCHASE ticket
// through the booking path.
func purchaseTicket(t *testing.T, store *memStore, seat uint32, userID uint64) uint64 {
	t.Helper()
	svc := NewBookingService(newFakeCatalog(testSession(1, 50)), store, nil)
	id, err := svc.Purchase(context.Background(), 1, seat, userID)
	require.NoError(t, err)
	return id
}

func TestApplyUnknownTicket(t *testing.T) {
	admin := NewTicketAdministration(newMemStore(), nil)
	err := admin.Apply(context.Background(), 404, model.ActionConfirm)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)
}

func TestConfirmTwice(t *testing.T) {
	store := newMemStore()
	id := purchaseTicket(t, store, 10, 7)
	admin := NewTicketAdministration(store, nil)

	require.NoError(t, admin.Apply(context.Background(), id, model.ActionConfirm))

	err := admin.Apply(context.Background(), id, model.ActionConfirm)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	ticket, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, ticket.Status, "second confirm must not change the status")
}

func TestCancelOnlyFromPending(t *testing.T) {
	store := newMemStore()
	id := purchaseTicket(t, store, 10, 7)
	admin := NewTicketAdministration(store, nil)

	require.NoError(t, admin.Apply(context.Background(), id, model.ActionConfirm))

	err := admin.Apply(context.Background(), id, model.ActionCancel)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestCancelFreesSeat(t *testing.T) {
	store := newMemStore()
	id := purchaseTicket(t, store, 10, 7)
	admin := NewTicketAdministration(store, nil)
	booking := NewBookingService(newFakeCatalog(testSession(1, 50)), store, nil)

	require.NoError(t, admin.Apply(context.Background(), id, model.ActionCancel))

	ticket, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, ticket.Status)

	// the seat is claimable again by a fresh purchase
	_, err = booking.Purchase(context.Background(), 1, 10, 8)
	assert.NoError(t, err)
}

// TestReturnFlow runs the full two-party handshake: the customer flags
// the confirmed ticket for return, the admin processes it, and the seat
// becomes claimable again.
func TestReturnFlow(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	id := purchaseTicket(t, store, 10, 7)
	admin := NewTicketAdministration(store, pub)
	booking := NewBookingService(newFakeCatalog(testSession(1, 50)), store, nil)

	require.NoError(t, admin.Apply(context.Background(), id, model.ActionConfirm))
	require.NoError(t, admin.RequestReturn(context.Background(), id, 7))

	ticket, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, ticket.Status, "status unchanged while return awaits the admin")
	assert.Equal(t, model.RequestReturn, ticket.RequestType)

	held, err := store.IsHeld(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, held, "a ticket awaiting return still occupies its seat")

	require.NoError(t, admin.Apply(context.Background(), id, model.ActionProcessReturn))

	ticket, err = store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, ticket.Status)

	_, err = booking.Purchase(context.Background(), 1, 10, 8)
	assert.NoError(t, err, "seat must be claimable after the return is processed")

	assert.Equal(t, []string{"confirm", "request_return", "process_return"}, pub.actions())
}

func TestProcessReturnNeedsRequest(t *testing.T) {
	store := newMemStore()
	id := purchaseTicket(t, store, 10, 7)
	admin := NewTicketAdministration(store, nil)

	require.NoError(t, admin.Apply(context.Background(), id, model.ActionConfirm))

	err := admin.Apply(context.Background(), id, model.ActionProcessReturn)
	assert.ErrorIs(t, err, model.ErrInvalidTransition, "process_return requires a prior return request")
}

func TestRequestReturnOwnershipEnforced(t *testing.T) {
	store := newMemStore()
	id := purchaseTicket(t, store, 10, 7)
	admin := NewTicketAdministration(store, nil)

	require.NoError(t, admin.Apply(context.Background(), id, model.ActionConfirm))

	err := admin.RequestReturn(context.Background(), id, 8)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	ticket, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.RequestPurchase, ticket.RequestType, "foreign request must not flip the request type")
}

func TestRequestReturnOnPendingRejected(t *testing.T) {
	store := newMemStore()
	id := purchaseTicket(t, store, 10, 7)
	admin := NewTicketAdministration(store, nil)

	err := admin.RequestReturn(context.Background(), id, 7)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestDeleteTicket(t *testing.T) {
	store := newMemStore()
	id := purchaseTicket(t, store, 10, 7)
	admin := NewTicketAdministration(store, nil)
	booking := NewBookingService(newFakeCatalog(testSession(1, 50)), store, nil)

	require.NoError(t, admin.Delete(context.Background(), id))

	_, err := store.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)

	err = admin.Delete(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)

	_, err = booking.Purchase(context.Background(), 1, 10, 8)
	assert.NoError(t, err, "deleting an active ticket frees the seat")
}

// staleOnceStore wraps memStore and fails the first UpdateState with
// ErrStaleTicket to exercise the reload-and-retry loop.
type staleOnceStore struct {
	*memStore
	failed bool
}

func (s *staleOnceStore) UpdateState(ctx context.Context, id uint64,
	newStatus model.TicketStatus, newRequest model.RequestType,
	oldStatus model.TicketStatus, oldRequest model.RequestType) error {
	if !s.failed {
		s.failed = true
		return repository.ErrStaleTicket
	}
	return s.memStore.UpdateState(ctx, id, newStatus, newRequest, oldStatus, oldRequest)
}

func TestApplyRetriesAfterConcurrentChange(t *testing.T) {
	inner := newMemStore()
	id := purchaseTicket(t, inner, 10, 7)
	store := &staleOnceStore{memStore: inner}
	admin := NewTicketAdministration(store, nil)

	require.NoError(t, admin.Apply(context.Background(), id, model.ActionConfirm))

	ticket, err := inner.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, ticket.Status)
	assert.True(t, store.failed, "the guarded update must have been retried")
}

// TestConcurrentConfirmCancel races an admin confirm against an admin
// cancel on the same pending ticket; exactly one may win.
func TestConcurrentConfirmCancel(t *testing.T) {
	store := newMemStore()
	id := purchaseTicket(t, store, 10, 7)
	admin := NewTicketAdministration(store, nil)

	done := make(chan error, 2)
	go func() { done <- admin.Apply(context.Background(), id, model.ActionConfirm) }()
	go func() { done <- admin.Apply(context.Background(), id, model.ActionCancel) }()

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			assert.ErrorIs(t, err, model.ErrInvalidTransition)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two racing actions must win")

	ticket, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, []model.TicketStatus{model.StatusConfirmed, model.StatusCancelled}, ticket.Status)
}
