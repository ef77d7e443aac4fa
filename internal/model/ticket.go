package model

import (
    "errors"
    "fmt"
    "strings"
    "time"
)

// TicketStatus is the lifecycle state of a ticket.  It is a closed
// enumeration: values only enter the system through ParseTicketStatus,
// which is called once at the boundary (request parsing, row scanning).
// Downstream code compares against the constants and never re-parses.
type TicketStatus string

const (
    StatusPending   TicketStatus = "PENDING"   // created by a purchase, awaiting admin confirmation
    StatusConfirmed TicketStatus = "CONFIRMED" // confirmed by an administrator
    StatusReturned  TicketStatus = "RETURNED"  // return processed, seat released
    StatusCancelled TicketStatus = "CANCELLED" // cancelled before confirmation, seat released
)

// RequestType records which workflow produced or currently targets a
// ticket.  It is orthogonal to TicketStatus: a CONFIRMED ticket with
// RequestReturn is a ticket whose holder has asked for a return that an
// administrator has not yet processed.
type RequestType string

const (
    RequestPurchase RequestType = "PURCHASE" // ticket created through the purchase flow
    RequestReturn   RequestType = "RETURN"   // holder has requested a return
)

// ErrUnknownEnum is returned by the Parse* functions when the input does
// not name a defined enumeration value.
var ErrUnknownEnum = errors.New("unknown enum value")

// ParseTicketStatus validates a raw string against the closed status set.
// Comparison is case-insensitive; the canonical upper-case value is
// returned.
func ParseTicketStatus(s string) (TicketStatus, error) {
    switch TicketStatus(strings.ToUpper(strings.TrimSpace(s))) {
    case StatusPending:
        return StatusPending, nil
    case StatusConfirmed:
        return StatusConfirmed, nil
    case StatusReturned:
        return StatusReturned, nil
    case StatusCancelled:
        return StatusCancelled, nil
    }
    return "", fmt.Errorf("%w: ticket status %q", ErrUnknownEnum, s)
}

// ParseRequestType validates a raw string against the closed request
// type set.
func ParseRequestType(s string) (RequestType, error) {
    switch RequestType(strings.ToUpper(strings.TrimSpace(s))) {
    case RequestPurchase:
        return RequestPurchase, nil
    case RequestReturn:
        return RequestReturn, nil
    }
    return "", fmt.Errorf("%w: request type %q", ErrUnknownEnum, s)
}

// Active reports whether a ticket in the given status occupies its seat.
// PENDING and CONFIRMED tickets hold their seat; RETURNED and CANCELLED
// tickets do not, so the seat is claimable again.  A CONFIRMED ticket
// with a pending return request still counts as active until the return
// is processed.
func (s TicketStatus) Active() bool {
    return s == StatusPending || s == StatusConfirmed
}

// Ticket represents a row of the `tickets` table.  SeatNumber is
// 1-based and bounded by the capacity of the referenced session.  A
// ticket never changes its session or seat after creation; only
// (Status, RequestType) are mutated, and only through the transition
// table in transition.go.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – user who purchased the ticket.
//  SessionID    – film session the ticket is for.
//  SeatNumber   – 1-based seat index within the session's capacity.
//  PurchaseTime – when the purchase was made (nullable in the schema).
//  Status       – lifecycle state.
//  RequestType  – workflow intent tag.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Ticket struct {
    ID           uint64       // tickets.id
    UserID       uint64       // tickets.user_id
    SessionID    uint64       // tickets.session_id
    SeatNumber   uint32       // tickets.seat_number
    PurchaseTime *time.Time   // tickets.purchase_time (nullable)
    Status       TicketStatus // tickets.status
    RequestType  RequestType  // tickets.request_type
    CreatedAt    time.Time    // tickets.created_at
    UpdatedAt    time.Time    // tickets.updated_at
}
