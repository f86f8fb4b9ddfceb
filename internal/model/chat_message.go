package model

import "time"

// ChatMessage is one entry in a movie's discussion thread, stored in
// the `chat_messages` table. Messages are append-only: they are never
// updated or deleted, and there is no retention policy.
//
// The Timestamp is supplied by the writer at send time rather than
// generated by the store, so ordering is subject to client clock skew.
// Within one movie's thread messages sort by (timestamp, id); the id
// tie-break keeps equal timestamps in insertion order.
//
// Username is not a column of chat_messages. On reads it is resolved
// by joining the author's current users row; on appends it echoes the
// value the caller supplied.
//
// Fields:
//  ID        – primary key identifier, assigned by the store.
//  MovieID   – the movie whose thread this message belongs to.
//  UserID    – the author of the message.
//  Username  – author name carried alongside the message (see above).
//  Content   – free-text message body, non-empty after trimming.
//  Timestamp – writer-supplied send time; the sort key of the thread.
type ChatMessage struct {
    ID        uint64    // chat_messages.id
    MovieID   uint64    // chat_messages.movie_id
    UserID    uint64    // chat_messages.user_id
    Username  string    // joined from users.username
    Content   string    // chat_messages.content
    Timestamp time.Time // chat_messages.timestamp
}
