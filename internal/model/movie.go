package model

import "time"

// Movie represents a catalog entry from the `movies` table. Movies
// are created only by the schema seed step in this version; there is
// no user-facing creation path. The Genres slice is not a column of
// the movies table itself: repositories populate it from the
// `movie_genres` table when returning enriched records.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – movie title.
//  Year      – release year.
//  Director  – director name (optional, may be empty).
//  PosterURL – poster image reference (optional, may be empty).
//  CreatedAt – timestamp when the row was inserted.
//  Genres    – genre labels resolved from movie_genres (not a column).
type Movie struct {
    ID        uint64    // movies.id
    Title     string    // movies.title
    Year      int       // movies.year
    Director  string    // movies.director (nullable)
    PosterURL string    // movies.poster_url (nullable)
    CreatedAt time.Time // movies.created_at
    Genres    []string  // resolved from movie_genres.genre
}

// MovieGenre is a (movie, genre) pair from the `movie_genres` table.
// Every seeded movie owns at least one genre row.
type MovieGenre struct {
    ID      uint64 // movie_genres.id
    MovieID uint64 // movie_genres.movie_id
    Genre   string // movie_genres.genre
}
