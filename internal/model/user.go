package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags. The password
// is never stored in plaintext; only a bcrypt hash is persisted.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique username (case-sensitive exact match).
//  Age          – the user's age in years. A minimum of 13 is
//                 enforced by the registration caller, not here.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation. Set at insert time and
//                 immutable thereafter; no update or delete path exists.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    Age          int       // users.age
    Email        string    // users.email
    PasswordHash string    // users.password
    CreatedAt    time.Time // users.created_at
}

// GenrePreference is a (user, genre) pair from the `user_preferences`
// table. A user owns zero or more preference rows; they are written
// in one batch right after the owning user row and never change.
//
// Fields:
//  ID     – primary key identifier.
//  UserID – owner of the preference.
//  Genre  – free-text genre label (e.g. "Drama").
type GenrePreference struct {
    ID     uint64 // user_preferences.id
    UserID uint64 // user_preferences.user_id
    Genre  string // user_preferences.genre
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
