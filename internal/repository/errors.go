// Package repository implements data access over MySQL.  This file
// defines the sentinel errors shared across repositories.  Higher
// layers match them with errors.Is to translate failures into HTTP
// responses; any repository error that is not one of these sentinels
// is an opaque storage failure and maps to a 500.
package repository

import "errors"

// ErrSessionNotFound is returned when a session id has no record.
var ErrSessionNotFound = errors.New("session not found")

// ErrTicketNotFound is returned when a ticket id has no record.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrMovieNotFound is returned when a movie id has no record.
var ErrMovieNotFound = errors.New("movie not found")

// ErrSeatTaken is returned by TicketRepo.Claim when another active
// ticket already holds the requested seat.  The losing purchase must
// surface this to the user as "seat no longer available"; it is never
// retried with a different seat.  Handlers translate it into 409.
var ErrSeatTaken = errors.New("seat already taken")

// ErrStaleTicket is returned by TicketRepo.UpdateState when the
// guarded update matched no row because a concurrent action changed
// the ticket between read and write.  The caller should reload and
// re-evaluate the transition.
var ErrStaleTicket = errors.New("ticket changed concurrently")

// ErrEmailExists is returned by UserRepo.Create when the email is
// already registered.  Handlers translate it into 409.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as requesting a return on another
// user's ticket.  Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete cannot proceed because of
// dependent records, such as removing a session that still has active
// tickets.  Handlers translate it into 409.
var ErrConflict = errors.New("conflict")
