package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/moviegram/moviegram/internal/database"
	"github.com/moviegram/moviegram/internal/middleware"
	"github.com/moviegram/moviegram/internal/repository"
	"github.com/moviegram/moviegram/internal/utils"
)

const testSecret = "test-secret"

// newChatServer wires an Echo instance over a fresh in-memory database
// with the same route layout as main, minus Redis.
func newChatServer(t *testing.T) (*echo.Echo, *sql.DB) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.NewSchema(db, "sqlite").Provision(context.Background()))

	ch := NewChatHandler(repository.NewChatRepo(db), repository.NewMovieRepo(db))
	ch.PublishEvents = false

	e := echo.New()
	e.GET("/v1/movies/:id/chat", ch.List)
	e.POST("/v1/movies/:id/chat", ch.Post, middleware.JWTAuth(testSecret))
	return e, db
}

// authHeader registers a user and returns a bearer header for them.
func authHeader(t *testing.T, db *sql.DB, username string) (uint64, string) {
	t.Helper()
	uid, err := repository.NewUserRepo(db).Register(context.Background(),
		username, 25, username+"@x.com", "pw12345678", []string{"Drama"}, bcrypt.MinCost)
	require.NoError(t, err)

	at, err := utils.NewAccessToken(testSecret, uid, username, 15)
	require.NoError(t, err)
	return uid, "Bearer " + at.Token
}

func TestPostAndPollThread(t *testing.T) {
	e, db := newChatServer(t)
	uid, bearer := authHeader(t, db, "alice")

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	body := fmt.Sprintf(`{"content":"Great film!","timestamp":%q}`, ts.Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodPost, "/v1/movies/1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearer)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var posted struct {
		ID       uint64 `json:"id"`
		MovieID  uint64 `json:"movieId"`
		UserID   uint64 `json:"userId"`
		Username string `json:"username"`
		Content  string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posted))
	require.NotZero(t, posted.ID)
	require.Equal(t, uint64(1), posted.MovieID)
	require.Equal(t, uid, posted.UserID)
	require.Equal(t, "alice", posted.Username)
	require.Equal(t, "Great film!", posted.Content)

	// Poll the thread back.
	req = httptest.NewRequest(http.MethodGet, "/v1/movies/1/chat", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "5", rec.Header().Get("X-Poll-Interval"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var listed struct {
		Items []struct {
			ID      uint64 `json:"id"`
			Content string `json:"content"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Items, 1)
	require.Equal(t, posted.ID, listed.Items[0].ID)
	require.Equal(t, "Great film!", listed.Items[0].Content)
}

func TestPostRequiresToken(t *testing.T) {
	e, _ := newChatServer(t)

	body := fmt.Sprintf(`{"content":"hi","timestamp":%q}`, time.Now().UTC().Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodPost, "/v1/movies/1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostRejectsBlankContent(t *testing.T) {
	e, db := newChatServer(t)
	_, bearer := authHeader(t, db, "bob")

	body := fmt.Sprintf(`{"content":"   ","timestamp":%q}`, time.Now().UTC().Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodPost, "/v1/movies/1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearer)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestThreadUnknownMovie(t *testing.T) {
	e, db := newChatServer(t)
	_, bearer := authHeader(t, db, "carol")

	req := httptest.NewRequest(http.MethodGet, "/v1/movies/999/chat", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := fmt.Sprintf(`{"content":"hi","timestamp":%q}`, time.Now().UTC().Format(time.RFC3339))
	req = httptest.NewRequest(http.MethodPost, "/v1/movies/999/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearer)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
