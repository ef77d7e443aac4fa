package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/cinema-box-office/internal/model"
)

// SessionRepo is the session catalog: a read-mostly store of film
// sessions.  The booking engine consumes it for capacity lookups;
// administrators manage it through the CRUD methods.
type SessionRepo struct {
    db *sql.DB
}

// NewSessionRepo returns a SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = `id, movie_id, price_cents, session_date, starts_at, ends_at, capacity, created_at, updated_at`

func scanSession(s scanner) (*model.FilmSession, error) {
    var fs model.FilmSession
    if err := s.Scan(&fs.ID, &fs.MovieID, &fs.PriceCents, &fs.Date,
        &fs.StartsAt, &fs.EndsAt, &fs.Capacity, &fs.CreatedAt, &fs.UpdatedAt); err != nil {
        return nil, err
    }
    return &fs, nil
}

// GetByID returns a session by its id, or ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.FilmSession, error) {
    const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
    fs, err := scanSession(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrSessionNotFound
    }
    return fs, err
}

// Create inserts a session and writes the generated ID back.  Capacity
// must be positive; callers validate before reaching the repository.
func (r *SessionRepo) Create(ctx context.Context, fs *model.FilmSession) error {
    const q = `INSERT INTO sessions (movie_id, price_cents, session_date, starts_at, ends_at, capacity)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        fs.MovieID, fs.PriceCents, fs.Date.UTC().Format("2006-01-02"),
        fs.StartsAt.UTC(), fs.EndsAt.UTC(), fs.Capacity)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    fs.ID = uint64(id)
    return nil
}

// Update rewrites the mutable fields of a session.  Returns
// ErrSessionNotFound when the id has no record.  Shrinking capacity
// below an already-claimed seat number is rejected with ErrConflict so
// existing tickets never end up out of bounds.
func (r *SessionRepo) Update(ctx context.Context, fs *model.FilmSession) error {
    const maxSeatQ = `SELECT COALESCE(MAX(seat_number), 0) FROM tickets
                      WHERE session_id = ? AND status IN ('PENDING','CONFIRMED')`
    var maxSeat uint32
    if err := r.db.QueryRowContext(ctx, maxSeatQ, fs.ID).Scan(&maxSeat); err != nil {
        return err
    }
    if fs.Capacity < maxSeat {
        return ErrConflict
    }
    const q = `UPDATE sessions SET movie_id = ?, price_cents = ?, session_date = ?,
                      starts_at = ?, ends_at = ?, capacity = ?
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        fs.MovieID, fs.PriceCents, fs.Date.UTC().Format("2006-01-02"),
        fs.StartsAt.UTC(), fs.EndsAt.UTC(), fs.Capacity, fs.ID)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err != nil {
        return err
    } else if n == 0 {
        // Either the row is absent or the update was a no-op; distinguish.
        if _, err := r.GetByID(ctx, fs.ID); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a session.  It refuses with ErrConflict while active
// tickets exist for the session, and returns ErrSessionNotFound when
// the id has no record.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
    const activeQ = `SELECT EXISTS(
                         SELECT 1 FROM tickets
                         WHERE session_id = ? AND status IN ('PENDING','CONFIRMED'))`
    var hasActive bool
    if err := r.db.QueryRowContext(ctx, activeQ, id).Scan(&hasActive); err != nil {
        return err
    }
    if hasActive {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrSessionNotFound
    }
    return nil
}

// SessionDetail is a session joined with its movie title and the
// number of seats still free, as shown on public listing pages.
type SessionDetail struct {
    ID         uint64    `json:"id"`
    MovieID    uint64    `json:"movie_id"`
    MovieTitle string    `json:"movie_title"`
    PriceCents uint32    `json:"price_cents"`
    Date       string    `json:"date"`
    StartsAt   time.Time `json:"starts_at"`
    EndsAt     time.Time `json:"ends_at"`
    Capacity   uint32    `json:"capacity"`
    FreeSeats  uint32    `json:"free_seats"`
}

// List returns all sessions with movie titles and free seat counts,
// soonest first.  Pass a zero movieID to list every session, or a
// movie id to restrict the listing to that movie.
func (r *SessionRepo) List(ctx context.Context, movieID uint64) ([]SessionDetail, error) {
    q := `SELECT s.id, s.movie_id, m.title, s.price_cents, s.session_date,
                 s.starts_at, s.ends_at, s.capacity,
                 s.capacity - COUNT(t.id)
          FROM sessions s
          JOIN movies m ON m.id = s.movie_id
          LEFT JOIN tickets t ON t.session_id = s.id AND t.status IN ('PENDING','CONFIRMED')`
    args := []any{}
    if movieID != 0 {
        q += ` WHERE s.movie_id = ?`
        args = append(args, movieID)
    }
    q += ` GROUP BY s.id, s.movie_id, m.title, s.price_cents, s.session_date,
                    s.starts_at, s.ends_at, s.capacity
           ORDER BY s.starts_at, s.id`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]SessionDetail, 0)
    for rows.Next() {
        var (
            d    SessionDetail
            date time.Time
        )
        if err := rows.Scan(&d.ID, &d.MovieID, &d.MovieTitle, &d.PriceCents, &date,
            &d.StartsAt, &d.EndsAt, &d.Capacity, &d.FreeSeats); err != nil {
            return nil, err
        }
        d.Date = date.UTC().Format("2006-01-02")
        details = append(details, d)
    }
    return details, rows.Err()
}
