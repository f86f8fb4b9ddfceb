// Package queue defines message payloads exchanged over the message broker.
package queue

// ChatMessagePostedEvent is published after a message is appended to a
// movie's thread. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type ChatMessagePostedEvent struct {
    MessageID uint64 `json:"message_id"`
    MovieID   uint64 `json:"movie_id"`
    UserID    uint64 `json:"user_id"`
    Username  string `json:"username"`
    Content   string `json:"content"`
    Timestamp string `json:"timestamp"`
}
