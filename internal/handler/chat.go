// This file serves a movie's discussion thread: the poll endpoint the
// client fetches on a fixed interval, and the authenticated append
// endpoint. The thread must never be served from the response cache —
// a cached body would hide new messages for a full TTL — so these
// routes carry Cache-Control: no-store and only the rate limiter in
// front of them.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviegram/moviegram/internal/model"
	"github.com/moviegram/moviegram/internal/queue"
	"github.com/moviegram/moviegram/internal/repository"
	queue_publisher "github.com/moviegram/moviegram/internal/service"
)

// pollInterval is the fixed delay the client poller waits between
// thread fetches. Advertised on every poll response so the client does
// not need to hardcode it.
const pollInterval = 5 * time.Second

// ChatHandler serves per-movie discussion threads.
type ChatHandler struct {
	Chat   *repository.ChatRepo
	Movies *repository.MovieRepo
	// PublishEvents controls whether appends emit a broker event.
	// Disabled in tests.
	PublishEvents bool
}

func NewChatHandler(ch *repository.ChatRepo, m *repository.MovieRepo) *ChatHandler {
	return &ChatHandler{Chat: ch, Movies: m, PublishEvents: true}
}

type postMessageReq struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// messageResp is the wire shape of one chat message, matching what the
// poller merges into its local view.
type messageResp struct {
	ID        uint64    `json:"id"`
	MovieID   uint64    `json:"movieId"`
	UserID    uint64    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func toMessageResp(m model.ChatMessage) messageResp {
	return messageResp{
		ID:        m.ID,
		MovieID:   m.MovieID,
		UserID:    m.UserID,
		Username:  m.Username,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}

// List returns the full thread for one movie, oldest first. Equal
// timestamps keep their insertion order, so repeated polls always see
// the same sequence plus any new tail.
func (h *ChatHandler) List(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.Get(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	msgs, err := h.Chat.ListForMovie(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]messageResp, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResp(m))
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	c.Response().Header().Set("X-Poll-Interval", strconv.Itoa(int(pollInterval/time.Second)))
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Post appends one message to the thread. The timestamp comes from the
// client at send time and is stored as-is; identity comes from the
// access token, so the echoed username is the one the author logged in
// with. Responds with the stored message including its store-assigned
// id, which the optimistic client uses to reconcile its local echo.
func (h *ChatHandler) Post(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	username, _ := c.Get("username").(string)

	var req postMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	if req.Timestamp.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "timestamp required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.Get(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	msg, err := h.Chat.Append(ctx, movieID, uid, username, req.Content, req.Timestamp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "append failed"})
	}

	if h.PublishEvents {
		ev := queue.ChatMessagePostedEvent{
			MessageID: msg.ID,
			MovieID:   msg.MovieID,
			UserID:    msg.UserID,
			Username:  msg.Username,
			Content:   msg.Content,
			Timestamp: msg.Timestamp.UTC().Format(time.RFC3339),
		}
		// Broker trouble must not fail the append; the publisher logs
		// its own errors.
		go func() { _ = queue_publisher.PublishChatMessagePosted(context.Background(), ev) }()
	}

	return c.JSON(http.StatusCreated, toMessageResp(msg))
}
