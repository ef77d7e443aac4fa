package service

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/iliyamo/cinema-box-office/internal/model"
    "github.com/iliyamo/cinema-box-office/internal/queue"
    "github.com/iliyamo/cinema-box-office/internal/repository"
)

// TicketStore is the transactional read/write surface
// TicketAdministration needs.  UpdateState must persist the new pair
// only when the row still carries the old one, returning
// repository.ErrStaleTicket otherwise.  Implemented by
// repository.TicketRepo.
type TicketStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
    UpdateState(ctx context.Context, id uint64,
        newStatus model.TicketStatus, newRequest model.RequestType,
        oldStatus model.TicketStatus, oldRequest model.RequestType) error
    Delete(ctx context.Context, id uint64) error
}

// TicketAdministration drives ticket lifecycle transitions.  All
// legality decisions are delegated to model.Transition; this type only
// loads, applies and persists.  Seats are released implicitly: the
// ledger derives occupancy from live status, so moving a ticket to
// CANCELLED or RETURNED is all it takes to free the seat.
type TicketAdministration struct {
    store  TicketStore
    events EventPublisher
}

// NewTicketAdministration constructs a TicketAdministration.  store
// must be non-nil; events may be nil to disable event publishing.
func NewTicketAdministration(store TicketStore, events EventPublisher) *TicketAdministration {
    if store == nil {
        panic("nil store passed to NewTicketAdministration")
    }
    return &TicketAdministration{store: store, events: events}
}

// applyAttempts bounds the reload-and-retry loop in apply.  A retry
// only happens when a concurrent action moved the ticket between our
// read and our guarded write, which cannot repeat indefinitely because
// every status has finitely many outgoing transitions.
const applyAttempts = 3

// Apply runs one administrative action (confirm, cancel,
// process_return) or the customer's request_return against a ticket.
// It loads the ticket (repository.ErrTicketNotFound), consults the
// transition table (model.ErrInvalidTransition) and persists the
// outcome with a guarded update so that of two concurrent actions on
// the same ticket exactly one wins; the loser re-reads the fresh state
// and reports whatever the table says about it.
func (a *TicketAdministration) Apply(ctx context.Context, ticketID uint64, action model.TicketAction) error {
    return a.apply(ctx, ticketID, 0, action)
}

// RequestReturn flags a customer's own CONFIRMED ticket for return.
// It is Apply(request_return) plus an ownership check: acting on
// another user's ticket yields repository.ErrForbidden.
func (a *TicketAdministration) RequestReturn(ctx context.Context, ticketID, userID uint64) error {
    return a.apply(ctx, ticketID, userID, model.ActionRequestReturn)
}

// apply implements Apply and RequestReturn.  A zero ownerID skips the
// ownership check.
func (a *TicketAdministration) apply(ctx context.Context, ticketID, ownerID uint64, action model.TicketAction) error {
    var err error
    for attempt := 0; attempt < applyAttempts; attempt++ {
        var t *model.Ticket
        t, err = a.store.GetByID(ctx, ticketID)
        if err != nil {
            return err
        }
        if ownerID != 0 && t.UserID != ownerID {
            return repository.ErrForbidden
        }
        var (
            newStatus  model.TicketStatus
            newRequest model.RequestType
        )
        newStatus, newRequest, err = model.Transition(t.Status, t.RequestType, action)
        if err != nil {
            return err
        }
        err = a.store.UpdateState(ctx, ticketID, newStatus, newRequest, t.Status, t.RequestType)
        if errors.Is(err, repository.ErrStaleTicket) {
            continue // someone else moved the ticket first; re-read and re-evaluate
        }
        if err != nil {
            return err
        }
        a.publishChange(ctx, t, string(action), newStatus, newRequest)
        return nil
    }
    return err
}

// Delete removes a ticket unconditionally.  This is the explicit
// administrative destructive operation; it carries no lifecycle
// guarantees beyond removing the record.
func (a *TicketAdministration) Delete(ctx context.Context, ticketID uint64) error {
    t, err := a.store.GetByID(ctx, ticketID)
    if err != nil {
        return err
    }
    if err := a.store.Delete(ctx, ticketID); err != nil {
        return err
    }
    a.publishChange(ctx, t, "delete", t.Status, t.RequestType)
    return nil
}

func (a *TicketAdministration) publishChange(ctx context.Context, t *model.Ticket,
    action string, status model.TicketStatus, request model.RequestType) {
    if a.events == nil {
        return
    }
    ev := queue.TicketEvent{
        TicketID:    t.ID,
        UserID:      t.UserID,
        SessionID:   t.SessionID,
        SeatNumber:  t.SeatNumber,
        Action:      action,
        Status:      string(status),
        RequestType: string(request),
        OccurredAt:  time.Now().UTC().Format(time.RFC3339),
    }
    if err := a.events.PublishTicketEvent(ctx, ev); err != nil {
        // already committed; the event is best-effort
        log.Printf("admin: publish %s event for ticket %d failed: %v", ev.Action, ev.TicketID, err)
    }
}
