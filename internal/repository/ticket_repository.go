package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/cinema-box-office/internal/model"
)

// TicketRepo provides persistence for tickets and acts as the seat
// ledger: it is the single authority on whether a seat of a session is
// occupied by an active ticket, and Claim is the only code path that
// creates tickets.
//
// The uniqueness invariant is enforced by the schema, not by
// application code.  The tickets table carries a generated column
//
//	active_seat = IF(status IN ('PENDING','CONFIRMED'), seat_number, NULL)
//
// with a unique key on (session_id, active_seat).  MySQL treats NULLs
// in a unique key as distinct, so any number of RETURNED or CANCELLED
// rows may share a seat while at most one active row can hold it.  The
// insert itself is therefore the conflict detector; no check-then-insert
// round trip exists anywhere, and concurrent claims for the same seat
// resolve to exactly one winner regardless of isolation level.
type TicketRepo struct {
    db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, user_id, session_id, seat_number, purchase_time, status, request_type, created_at, updated_at`

// mysqlDuplicateEntry is the server error number for a unique key
// violation.
const mysqlDuplicateEntry = 1062

// scanner abstracts *sql.Row and *sql.Rows for scanTicket.
type scanner interface {
    Scan(dest ...any) error
}

// scanTicket reads one tickets row.  Status and request type strings
// are validated through the model parsers here, at the storage
// boundary, so the rest of the program only ever sees the closed
// enumerations.
func scanTicket(s scanner) (*model.Ticket, error) {
    var (
        t            model.Ticket
        purchaseTime sql.NullTime
        status       string
        request      string
    )
    if err := s.Scan(&t.ID, &t.UserID, &t.SessionID, &t.SeatNumber, &purchaseTime,
        &status, &request, &t.CreatedAt, &t.UpdatedAt); err != nil {
        return nil, err
    }
    if purchaseTime.Valid {
        pt := purchaseTime.Time
        t.PurchaseTime = &pt
    }
    var err error
    if t.Status, err = model.ParseTicketStatus(status); err != nil {
        return nil, fmt.Errorf("ticket %d: %w", t.ID, err)
    }
    if t.RequestType, err = model.ParseRequestType(request); err != nil {
        return nil, fmt.Errorf("ticket %d: %w", t.ID, err)
    }
    return &t, nil
}

// Claim atomically verifies that the seat is free and inserts the new
// ticket as one statement.  On success the generated ID is written back
// to the ticket.  When a concurrent claim already holds the seat, the
// unique key over (session_id, active_seat) rejects the insert and
// ErrSeatTaken is returned.  The caller must have validated the seat
// bounds; Claim only guarantees uniqueness.
func (r *TicketRepo) Claim(ctx context.Context, t *model.Ticket) error {
    const q = `INSERT INTO tickets (user_id, session_id, seat_number, purchase_time, status, request_type)
               VALUES (?, ?, ?, ?, ?, ?)`
    var purchaseTime any
    if t.PurchaseTime != nil {
        purchaseTime = t.PurchaseTime.UTC()
    }
    res, err := r.db.ExecContext(ctx, q,
        t.UserID, t.SessionID, t.SeatNumber, purchaseTime, string(t.Status), string(t.RequestType))
    if err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            return ErrSeatTaken
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// IsHeld reports whether an active (PENDING or CONFIRMED) ticket
// occupies the given seat of a session.  It reflects committed state
// at read time and is advisory only; Claim remains the authority under
// concurrency.
func (r *TicketRepo) IsHeld(ctx context.Context, sessionID uint64, seatNumber uint32) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM tickets
                   WHERE session_id = ? AND seat_number = ? AND status IN ('PENDING','CONFIRMED'))`
    var held bool
    if err := r.db.QueryRowContext(ctx, q, sessionID, seatNumber).Scan(&held); err != nil {
        return false, err
    }
    return held, nil
}

// HeldSeats returns the seat numbers of all active tickets for a
// session, ordered ascending.  Used by the public availability
// endpoint.
func (r *TicketRepo) HeldSeats(ctx context.Context, sessionID uint64) ([]uint32, error) {
    const q = `SELECT seat_number FROM tickets
               WHERE session_id = ? AND status IN ('PENDING','CONFIRMED')
               ORDER BY seat_number`
    rows, err := r.db.QueryContext(ctx, q, sessionID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    seats := make([]uint32, 0)
    for rows.Next() {
        var n uint32
        if err := rows.Scan(&n); err != nil {
            return nil, err
        }
        seats = append(seats, n)
    }
    return seats, rows.Err()
}

// GetByID returns a ticket by its id, or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
    const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
    t, err := scanTicket(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrTicketNotFound
    }
    return t, err
}

// UpdateState persists a new (status, request_type) pair for a ticket
// as a single guarded UPDATE: the write only happens when the row still
// carries the pair the caller read.  A zero row count means a
// concurrent action changed the ticket first; ErrStaleTicket tells the
// caller to reload and re-evaluate.  The update is one statement, so
// the compare and the write are indivisible to every other transaction.
func (r *TicketRepo) UpdateState(ctx context.Context, id uint64,
    newStatus model.TicketStatus, newRequest model.RequestType,
    oldStatus model.TicketStatus, oldRequest model.RequestType) error {
    const q = `UPDATE tickets SET status = ?, request_type = ?
               WHERE id = ? AND status = ? AND request_type = ?`
    res, err := r.db.ExecContext(ctx, q,
        string(newStatus), string(newRequest), id, string(oldStatus), string(oldRequest))
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrStaleTicket
    }
    return nil
}

// Delete removes a ticket row.  This is the explicit administrative
// destructive delete: no lifecycle guarantees apply beyond removing
// the record, which also frees the seat if the ticket was active.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrTicketNotFound
    }
    return nil
}

// listTickets runs a query returning ticket rows and scans them all.
func (r *TicketRepo) listTickets(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    tickets := make([]model.Ticket, 0)
    for rows.Next() {
        t, err := scanTicket(rows)
        if err != nil {
            return nil, err
        }
        tickets = append(tickets, *t)
    }
    return tickets, rows.Err()
}

// ListAll returns every ticket, newest first.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
    return r.listTickets(ctx,
        `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC, id DESC`)
}

// ListByUser returns all tickets purchased by a user, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
    return r.listTickets(ctx,
        `SELECT `+ticketColumns+` FROM tickets WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

// ListBySession returns all tickets of a session ordered by seat.
func (r *TicketRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error) {
    return r.listTickets(ctx,
        `SELECT `+ticketColumns+` FROM tickets WHERE session_id = ? ORDER BY seat_number, id`, sessionID)
}
