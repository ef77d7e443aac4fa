package model

import (
    "errors"
    "fmt"
    "strings"
)

// TicketAction names an operation an actor may attempt on a ticket.
// ActionRequestReturn is the only customer-initiated action; the rest
// are administrative.
type TicketAction string

const (
    ActionConfirm       TicketAction = "confirm"        // admin accepts a pending purchase
    ActionCancel        TicketAction = "cancel"         // admin rejects a pending ticket
    ActionProcessReturn TicketAction = "process_return" // admin executes a requested return
    ActionRequestReturn TicketAction = "request_return" // customer flags a confirmed ticket for return
)

// ParseTicketAction validates a raw string against the closed action set.
func ParseTicketAction(s string) (TicketAction, error) {
    switch TicketAction(strings.ToLower(strings.TrimSpace(s))) {
    case ActionConfirm:
        return ActionConfirm, nil
    case ActionCancel:
        return ActionCancel, nil
    case ActionProcessReturn:
        return ActionProcessReturn, nil
    case ActionRequestReturn:
        return ActionRequestReturn, nil
    }
    return "", fmt.Errorf("%w: ticket action %q", ErrUnknownEnum, s)
}

// ErrInvalidTransition is returned by Transition when no rule matches
// the (status, requestType, action) triple.  Handlers translate it into
// an HTTP 422 response.
var ErrInvalidTransition = errors.New("invalid ticket transition")

// transitionKey identifies one cell of the transition table.
type transitionKey struct {
    status  TicketStatus
    request RequestType
    action  TicketAction
}

// transitionOutcome is the resulting (status, requestType) pair for a
// legal transition.
type transitionOutcome struct {
    status  TicketStatus
    request RequestType
}

// transitions is the complete set of legal ticket transitions.  Every
// (status, requestType, action) triple absent from this map is illegal.
// Cancellation is legal from PENDING regardless of request type;
// confirmation requires a pending purchase; processing a return
// requires a confirmed ticket whose holder has requested one; a return
// request flips the request type of a confirmed purchase without
// touching the status, which is what lets the two-party handshake work
// without an extra state.
var transitions = map[transitionKey]transitionOutcome{
    {StatusPending, RequestPurchase, ActionConfirm}:         {StatusConfirmed, RequestPurchase},
    {StatusPending, RequestPurchase, ActionCancel}:          {StatusCancelled, RequestPurchase},
    {StatusPending, RequestReturn, ActionCancel}:            {StatusCancelled, RequestReturn},
    {StatusConfirmed, RequestReturn, ActionProcessReturn}:   {StatusReturned, RequestReturn},
    {StatusConfirmed, RequestPurchase, ActionRequestReturn}: {StatusConfirmed, RequestReturn},
}

// Transition applies action to a ticket in the given (status,
// requestType) state and returns the new pair.  It is a total function:
// every input maps either to exactly one outcome or to
// ErrInvalidTransition.  It performs no I/O; persisting the result is
// the caller's job.
func Transition(status TicketStatus, request RequestType, action TicketAction) (TicketStatus, RequestType, error) {
    out, ok := transitions[transitionKey{status, request, action}]
    if !ok {
        return "", "", fmt.Errorf("%w: %s/%s does not allow %s", ErrInvalidTransition, status, request, action)
    }
    return out.status, out.request, nil
}
