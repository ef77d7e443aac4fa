package model

import "time"

// Movie is an entry of the local movie catalog.  Sessions reference
// movies by ID.  The catalog is managed by administrators; customers
// only read it.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title.
//  Description – synopsis shown on listing pages.
//  DurationMin – running time in minutes.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
    ID          uint64    // movies.id
    Title       string    // movies.title
    Description string    // movies.description
    DurationMin uint32    // movies.duration_min
    CreatedAt   time.Time // movies.created_at
    UpdatedAt   time.Time // movies.updated_at
}
