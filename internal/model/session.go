package model

import "time"

// FilmSession represents a scheduled screening of a movie with a fixed
// number of numbered seats.  Capacity bounds the seat numbers tickets
// may claim (1..Capacity).  Sessions are immutable once scheduled
// except through administrative update.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  PriceCents – ticket price in cents.
//  Date       – calendar date of the screening.
//  StartsAt   – when the screening begins.
//  EndsAt     – when the screening ends (must be after StartsAt).
//  Capacity   – number of seats; positive.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type FilmSession struct {
    ID         uint64    // sessions.id
    MovieID    uint64    // sessions.movie_id
    PriceCents uint32    // sessions.price_cents
    Date       time.Time // sessions.session_date
    StartsAt   time.Time // sessions.starts_at
    EndsAt     time.Time // sessions.ends_at
    Capacity   uint32    // sessions.capacity
    CreatedAt  time.Time // sessions.created_at
    UpdatedAt  time.Time // sessions.updated_at
}
