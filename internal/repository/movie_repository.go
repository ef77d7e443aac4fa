package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/cinema-box-office/internal/model"
)

// MovieRepo provides CRUD operations for the local movie catalog.
type MovieRepo struct {
    db *sql.DB
}

// NewMovieRepo returns a MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = `id, title, description, duration_min, created_at, updated_at`

func scanMovie(s scanner) (*model.Movie, error) {
    var m model.Movie
    if err := s.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin,
        &m.CreatedAt, &m.UpdatedAt); err != nil {
        return nil, err
    }
    return &m, nil
}

// GetByID returns a movie by its id, or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
    const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
    m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrMovieNotFound
    }
    return m, err
}

// List returns all movies ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
    const q = `SELECT ` + movieColumns + ` FROM movies ORDER BY title, id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    movies := make([]model.Movie, 0)
    for rows.Next() {
        m, err := scanMovie(rows)
        if err != nil {
            return nil, err
        }
        movies = append(movies, *m)
    }
    return movies, rows.Err()
}

// Create inserts a movie and writes the generated ID back.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
    const q = `INSERT INTO movies (title, description, duration_min) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMin)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    return nil
}

// Update rewrites a movie's fields.  Returns ErrMovieNotFound when the
// id has no record.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
    const q = `UPDATE movies SET title = ?, description = ?, duration_min = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMin, m.ID)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err != nil {
        return err
    } else if n == 0 {
        if _, err := r.GetByID(ctx, m.ID); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a movie.  It refuses with ErrConflict while sessions
// reference the movie, and returns ErrMovieNotFound when the id has no
// record.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
    const refQ = `SELECT EXISTS(SELECT 1 FROM sessions WHERE movie_id = ?)`
    var referenced bool
    if err := r.db.QueryRowContext(ctx, refQ, id).Scan(&referenced); err != nil {
        return err
    }
    if referenced {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrMovieNotFound
    }
    return nil
}
