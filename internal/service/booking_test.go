package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-box-office/internal/model"
	"github.com/iliyamo/cinema-box-office/internal/repository"
)

func testSession(id uint64, capacity uint32) model.FilmSession {
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	return model.FilmSession{
		ID:         id,
		MovieID:    1,
		PriceCents: 1500,
		Date:       start.Truncate(24 * time.Hour),
		StartsAt:   start,
		EndsAt:     start.Add(2 * time.Hour),
		Capacity:   capacity,
	}
}

func TestPurchaseUnknownSession(t *testing.T) {
	store := newMemStore()
	svc := NewBookingService(newFakeCatalog(), store, nil)

	_, err := svc.Purchase(context.Background(), 42, 1, 7)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.Empty(t, store.tickets, "no ticket may be created when the session is unknown")
}

func TestPurchaseSeatOutOfRange(t *testing.T) {
	store := newMemStore()
	svc := NewBookingService(newFakeCatalog(testSession(1, 50)), store, nil)

	for _, seat := range []uint32{0, 51, 200} {
		_, err := svc.Purchase(context.Background(), 1, seat, 7)
		assert.ErrorIs(t, err, ErrInvalidSeat, "seat %d", seat)
	}
	assert.Empty(t, store.tickets, "no ticket may be created for an out-of-range seat")
}

func TestPurchaseCreatesPendingTicket(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := NewBookingService(newFakeCatalog(testSession(1, 50)), store, pub)

	id, err := svc.Purchase(context.Background(), 1, 10, 7)
	require.NoError(t, err)
	require.NotZero(t, id)

	ticket, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, ticket.Status)
	assert.Equal(t, model.RequestPurchase, ticket.RequestType)
	assert.Equal(t, uint64(7), ticket.UserID)
	assert.Equal(t, uint32(10), ticket.SeatNumber)
	require.NotNil(t, ticket.PurchaseTime)
	assert.WithinDuration(t, time.Now().UTC(), *ticket.PurchaseTime, time.Minute)

	held, err := store.IsHeld(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, held)

	assert.Equal(t, []string{"purchase"}, pub.actions())
}

func TestPurchaseSameSeatConflicts(t *testing.T) {
	store := newMemStore()
	svc := NewBookingService(newFakeCatalog(testSession(1, 50)), store, nil)

	_, err := svc.Purchase(context.Background(), 1, 10, 7)
	require.NoError(t, err)

	_, err = svc.Purchase(context.Background(), 1, 10, 8)
	assert.ErrorIs(t, err, repository.ErrSeatTaken)
	assert.Equal(t, 1, store.activeCount(1, 10))
}

// TestConcurrentPurchasesOneWinner races many purchases for the same
// seat and verifies the ledger admits exactly one active ticket; every
// loser sees ErrSeatTaken.
func TestConcurrentPurchasesOneWinner(t *testing.T) {
	store := newMemStore()
	svc := NewBookingService(newFakeCatalog(testSession(1, 50)), store, nil)

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			_, err := svc.Purchase(context.Background(), 1, 10, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			default:
				assert.ErrorIs(t, err, repository.ErrSeatTaken)
				conflicts++
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, store.activeCount(1, 10))
}

func TestDistinctSeatsDoNotContend(t *testing.T) {
	store := newMemStore()
	svc := NewBookingService(newFakeCatalog(testSession(1, 50)), store, nil)

	var wg sync.WaitGroup
	errs := make([]error, 50)
	for seat := uint32(1); seat <= 50; seat++ {
		wg.Add(1)
		go func(seat uint32) {
			defer wg.Done()
			_, errs[seat-1] = svc.Purchase(context.Background(), 1, seat, uint64(seat))
		}(seat)
	}
	wg.Wait()
	for seat, err := range errs {
		assert.NoError(t, err, "seat %d", seat+1)
	}
}

func TestAvailability(t *testing.T) {
	store := newMemStore()
	svc := NewBookingService(newFakeCatalog(testSession(1, 3)), store, nil)

	_, err := svc.Purchase(context.Background(), 1, 2, 7)
	require.NoError(t, err)

	av, err := svc.Availability(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), av.Capacity)
	assert.Equal(t, []uint32{2}, av.Held)
	assert.Equal(t, uint32(2), av.Free)

	_, err = svc.Availability(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}
