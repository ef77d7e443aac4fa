// Package service implements the booking engine: BookingService
// orchestrates seat purchases and TicketAdministration drives the
// ticket lifecycle.  Both consume narrow interfaces so the engine can
// be exercised against in-memory fakes; the MySQL repositories satisfy
// them in production.
package service

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/cinema-box-office/internal/model"
    "github.com/iliyamo/cinema-box-office/internal/queue"
)

// ErrInvalidSeat is returned by Purchase when the seat number falls
// outside 1..capacity of the target session.  Handlers translate it
// into 400.
var ErrInvalidSeat = errors.New("seat number out of range")

// SessionCatalog supplies film sessions for capacity validation.
// Implemented by repository.SessionRepo.
type SessionCatalog interface {
    GetByID(ctx context.Context, id uint64) (*model.FilmSession, error)
}

// SeatLedger atomically claims a seat for a new ticket.  Claim must
// verify non-occupancy and insert the ticket as one unit; when a
// concurrent claim won the race it returns repository.ErrSeatTaken.
// Implemented by repository.TicketRepo.
type SeatLedger interface {
    Claim(ctx context.Context, t *model.Ticket) error
    IsHeld(ctx context.Context, sessionID uint64, seatNumber uint32) (bool, error)
}

// EventPublisher emits ticket lifecycle events to the broker.  A nil
// publisher disables events.  Publish failures never fail the
// operation that triggered them.
type EventPublisher interface {
    PublishTicketEvent(ctx context.Context, ev queue.TicketEvent) error
}

// BookingService orchestrates seat purchases.  It owns no state; every
// invocation validates against the catalog and delegates uniqueness to
// the ledger, so concurrent purchases contend only at the storage
// boundary.
type BookingService struct {
    catalog SessionCatalog
    ledger  SeatLedger
    events  EventPublisher
}

// NewBookingService constructs a BookingService.  catalog and ledger
// must be non-nil; events may be nil to disable event publishing.
func NewBookingService(catalog SessionCatalog, ledger SeatLedger, events EventPublisher) *BookingService {
    if catalog == nil || ledger == nil {
        panic("nil dependency passed to NewBookingService")
    }
    return &BookingService{catalog: catalog, ledger: ledger, events: events}
}

// Purchase buys a seat for a user.  Steps: resolve the session
// (repository.ErrSessionNotFound), validate 1 <= seat <= capacity
// (ErrInvalidSeat), then claim the seat with a PENDING/PURCHASE
// candidate ticket.  A lost race surfaces as repository.ErrSeatTaken
// unchanged.  Nothing is written unless the claim succeeds, and the
// claim itself is all-or-nothing.
func (s *BookingService) Purchase(ctx context.Context, sessionID uint64, seatNumber uint32, userID uint64) (uint64, error) {
    sess, err := s.catalog.GetByID(ctx, sessionID)
    if err != nil {
        return 0, err
    }
    if seatNumber < 1 || seatNumber > sess.Capacity {
        return 0, fmt.Errorf("%w: seat %d not in 1..%d", ErrInvalidSeat, seatNumber, sess.Capacity)
    }
    now := time.Now().UTC()
    t := &model.Ticket{
        UserID:       userID,
        SessionID:    sessionID,
        SeatNumber:   seatNumber,
        PurchaseTime: &now,
        Status:       model.StatusPending,
        RequestType:  model.RequestPurchase,
    }
    if err := s.ledger.Claim(ctx, t); err != nil {
        return 0, err
    }
    s.publish(ctx, queue.TicketEvent{
        TicketID:    t.ID,
        UserID:      userID,
        SessionID:   sessionID,
        SeatNumber:  seatNumber,
        Action:      "purchase",
        Status:      string(t.Status),
        RequestType: string(t.RequestType),
        OccurredAt:  now.Format(time.RFC3339),
    })
    return t.ID, nil
}

// SeatAvailability describes the occupancy of one session.
type SeatAvailability struct {
    SessionID uint64   `json:"session_id"`
    Capacity  uint32   `json:"capacity"`
    Held      []uint32 `json:"held_seats"`
    Free      uint32   `json:"free_seats"`
}

// heldSeatsLister is the optional wide read the ledger offers beyond
// the claim contract.  repository.TicketRepo implements it.
type heldSeatsLister interface {
    HeldSeats(ctx context.Context, sessionID uint64) ([]uint32, error)
}

// Availability returns a committed occupancy snapshot for a session.
// It carries no concurrency contract; a seat reported free may be
// taken by the time a purchase is attempted.
func (s *BookingService) Availability(ctx context.Context, sessionID uint64) (*SeatAvailability, error) {
    sess, err := s.catalog.GetByID(ctx, sessionID)
    if err != nil {
        return nil, err
    }
    av := &SeatAvailability{SessionID: sessionID, Capacity: sess.Capacity, Held: []uint32{}}
    if lister, ok := s.ledger.(heldSeatsLister); ok {
        held, err := lister.HeldSeats(ctx, sessionID)
        if err != nil {
            return nil, err
        }
        av.Held = held
    }
    av.Free = av.Capacity - uint32(len(av.Held))
    return av, nil
}

// publish emits an event best-effort.  Failures are logged and
// swallowed; the booking already committed.
func (s *BookingService) publish(ctx context.Context, ev queue.TicketEvent) {
    if s.events == nil {
        return
    }
    if err := s.events.PublishTicketEvent(ctx, ev); err != nil {
        log.Printf("booking: publish %s event for ticket %d failed: %v", ev.Action, ev.TicketID, err)
    }
}
