// Package queue defines message payloads exchanged over the message
// broker together with the publisher and the background consumer.
package queue

// TicketEvent is published on every ticket lifecycle change: a purchase
// and each successful transition.  It carries enough information for
// downstream consumers to log, notify or feed analytics without
// querying the primary database.
type TicketEvent struct {
    TicketID    uint64 `json:"ticket_id"`
    UserID      uint64 `json:"user_id"`
    SessionID   uint64 `json:"session_id"`
    SeatNumber  uint32 `json:"seat_number"`
    Action      string `json:"action"`       // purchase, confirm, cancel, process_return, request_return, delete
    Status      string `json:"status"`       // status after the action
    RequestType string `json:"request_type"` // request type after the action
    OccurredAt  string `json:"occurred_at"`  // RFC3339 UTC
}
