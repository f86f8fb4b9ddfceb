// Package handler exposes the HTTP surface over the data-access core.
// This file serves the public catalog routes. The catalog is read-only
// at runtime — it is written once by the schema seed — so these
// endpoints sit behind the Redis response cache.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviegram/moviegram/internal/model"
	"github.com/moviegram/moviegram/internal/repository"
)

// MovieHandler serves catalog browse endpoints.
type MovieHandler struct {
	Movies *repository.MovieRepo
}

func NewMovieHandler(m *repository.MovieRepo) *MovieHandler {
	return &MovieHandler{Movies: m}
}

// movieResp mirrors the shape the web client consumes: the poster
// column is surfaced under the normalized posterUrl name and the genre
// labels ride along as a flat list.
type movieResp struct {
	ID        uint64   `json:"id"`
	Title     string   `json:"title"`
	Year      int      `json:"year"`
	Director  string   `json:"director,omitempty"`
	PosterURL string   `json:"posterUrl,omitempty"`
	Genres    []string `json:"genres"`
}

func toMovieResp(m model.Movie) movieResp {
	return movieResp{
		ID:        m.ID,
		Title:     m.Title,
		Year:      m.Year,
		Director:  m.Director,
		PosterURL: m.PosterURL,
		Genres:    m.Genres,
	}
}

// List returns every movie sorted by title, each with its genre set.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get returns one movie by id, 404 when it does not exist.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}
