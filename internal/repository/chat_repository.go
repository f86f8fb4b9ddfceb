package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/moviegram/moviegram/internal/model"
)

// ChatRepo is the append-only message store behind each movie's
// discussion thread. Appends from different viewers of the same
// thread interleave freely; no locking exists beyond the engine's
// per-statement guarantees, and reads always see a consistent
// snapshot as of call time.
type ChatRepo struct{ DB *sql.DB }

func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{DB: db} }

// Append inserts one message and returns it with the store-assigned
// id. The timestamp comes from the writer at send time, not from the
// store, so thread order is subject to client clock skew; the store
// does not validate monotonicity. The returned message echoes the
// username supplied by the caller rather than re-reading it from the
// users table.
//
// movie_id and user_id are real foreign keys here, so appending
// against an unknown movie or user fails with a storage error instead
// of silently inserting an orphaned row.
func (r *ChatRepo) Append(ctx context.Context, movieID, userID uint64, username, content string, ts time.Time) (model.ChatMessage, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO chat_messages (movie_id, user_id, content, timestamp) VALUES (?,?,?,?)",
		movieID, userID, content, ts.UTC())
	if err != nil {
		return model.ChatMessage{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ChatMessage{}, err
	}
	return model.ChatMessage{
		ID:        uint64(id),
		MovieID:   movieID,
		UserID:    userID,
		Username:  username,
		Content:   content,
		Timestamp: ts,
	}, nil
}

// ListForMovie returns the full thread for one movie ordered by
// timestamp ascending, ties broken by insertion order via the id
// column. The author's username is resolved by a live join against
// the users table, so it always reflects the current users row.
func (r *ChatRepo) ListForMovie(ctx context.Context, movieID uint64) ([]model.ChatMessage, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT cm.id, cm.movie_id, cm.user_id, u.username, cm.content, cm.timestamp
		 FROM chat_messages cm
		 JOIN users u ON cm.user_id = u.id
		 WHERE cm.movie_id = ?
		 ORDER BY cm.timestamp, cm.id`,
		movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.MovieID, &m.UserID, &m.Username, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
