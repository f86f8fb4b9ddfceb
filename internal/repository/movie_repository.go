package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/moviegram/moviegram/internal/model"
)

// MovieRepo is read-only access to the catalog. Movies are written
// only by the schema seed step, so there are no mutating methods.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// List returns every movie sorted by title ascending, each enriched
// with its full genre set via a per-movie follow-up lookup.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,year,director,poster_url,created_at FROM movies ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range movies {
		genres, err := r.genresFor(ctx, movies[i].ID)
		if err != nil {
			return nil, err
		}
		movies[i].Genres = genres
	}
	return movies, nil
}

// Get returns one movie by id, enriched identically to List. Returns
// ErrMovieNotFound when no row matches.
func (r *MovieRepo) Get(ctx context.Context, id uint64) (model.Movie, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT id,title,year,director,poster_url,created_at FROM movies WHERE id=? LIMIT 1", id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Movie{}, ErrMovieNotFound
		}
		return model.Movie{}, err
	}
	m.Genres, err = r.genresFor(ctx, m.ID)
	if err != nil {
		return model.Movie{}, err
	}
	return m, nil
}

func (r *MovieRepo) genresFor(ctx context.Context, movieID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT genre FROM movie_genres WHERE movie_id=?", movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

// scanMovie reads one movies row. Director and poster_url are
// nullable; NULL normalizes to the empty string.
func scanMovie(s scanner) (model.Movie, error) {
	var (
		m        model.Movie
		director sql.NullString
		poster   sql.NullString
	)
	if err := s.Scan(&m.ID, &m.Title, &m.Year, &director, &poster, &m.CreatedAt); err != nil {
		return model.Movie{}, err
	}
	m.Director = director.String
	m.PosterURL = poster.String
	return m, nil
}
