package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/moviegram/moviegram/internal/database"
)

// testCost keeps bcrypt fast in tests; production cost comes from config.
const testCost = bcrypt.MinCost

// bootstrap opens a fresh in-memory database and provisions it.
func bootstrap(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, NewSchema(db, "sqlite").Provision(context.Background()))
	return db
}

// registerUser is a shorthand for tests that just need an author row.
func registerUser(t *testing.T, db *sql.DB, username, email string) uint64 {
	t.Helper()
	id, err := NewUserRepo(db).Register(context.Background(),
		username, 25, email, "pw12345678", []string{"Drama"}, testCost)
	require.NoError(t, err)
	return id
}
