package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/moviegram/moviegram/internal/model"
	"github.com/moviegram/moviegram/internal/utils"
)

// UserRepo owns user identity: registration and authentication over
// the users and user_preferences tables.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Register creates a user with a bcrypt-hashed password and one
// preference row per genre, in the order supplied, inside a single
// transaction. It returns the new user's id.
//
// A combined username-or-email lookup runs before the insert so the
// common collision is reported without burning a bcrypt hash. That
// check is not atomic with the insert; a racing registration still
// trips the unique constraints, and that violation is reclassified to
// ErrDuplicateIdentity rather than surfacing as a raw storage error.
func (r *UserRepo) Register(ctx context.Context, username string, age int, email, password string, genres []string, cost int) (uint64, error) {
	if len(genres) == 0 {
		return 0, errors.New("at least one genre preference required")
	}

	var existing uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE username=? OR email=? LIMIT 1",
		username, email).Scan(&existing)
	if err == nil {
		return 0, ErrDuplicateIdentity
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, age, email, password) VALUES (?,?,?,?)",
		username, age, email, hash)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicateIdentity
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, g := range genres {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO user_preferences (user_id, genre) VALUES (?,?)",
			id, g); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Authenticate looks the user up by exact username match and verifies
// the password against the stored bcrypt hash. Unknown username and
// wrong password both come back as ErrInvalidCredentials; the caller
// must not be able to tell which field was wrong. The returned User
// carries only public fields — the hash is cleared.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return u, nil
}

// GetByUsername fetches a user row by exact (case-sensitive) username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,age,email,password,created_at FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.Age, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user row by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,age,email,password,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.Age, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// Preferences returns the genre labels registered for a user, in
// insertion order.
func (r *UserRepo) Preferences(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT genre FROM user_preferences WHERE user_id=? ORDER BY id", userID)
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

// isDuplicate reports whether err is a unique-constraint violation
// from either supported engine: MySQL error 1062 or SQLite's
// "UNIQUE constraint failed".
func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint failed")
}
