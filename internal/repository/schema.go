// Package repository contains data access logic for the MovieGram
// persistence core. This file owns the schema: table creation and the
// one-time seeding of the movie catalog.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Schema provisions the persistent layout shared by every repository.
// Provision is idempotent and runs at every process start before any
// other component touches the database.
type Schema struct {
	db     *sql.DB
	driver string // "mysql" or "sqlite"
}

// NewSchema returns a Schema bound to the given handle. The driver
// name selects the DDL dialect for the handful of constructs the two
// engines spell differently.
func NewSchema(db *sql.DB, driver string) *Schema {
	return &Schema{db: db, driver: driver}
}

// seedMovie is one entry of the fixed baseline catalog inserted when
// the movies table is empty.
type seedMovie struct {
	Title    string
	Year     int
	Director string
	Genres   []string
}

// seedCatalog is the baseline catalog. Inserted exactly once: the
// empty-check and the inserts run in the same transaction.
var seedCatalog = []seedMovie{
	{"Inception", 2010, "Christopher Nolan", []string{"Sci-Fi", "Action", "Thriller"}},
	{"The Shawshank Redemption", 1994, "Frank Darabont", []string{"Drama"}},
	{"Pulp Fiction", 1994, "Quentin Tarantino", []string{"Crime", "Drama"}},
	{"The Dark Knight", 2008, "Christopher Nolan", []string{"Action", "Crime", "Drama"}},
	{"Parasite", 2019, "Bong Joon-ho", []string{"Thriller", "Drama", "Comedy"}},
	{"The Godfather", 1972, "Francis Ford Coppola", []string{"Crime", "Drama"}},
}

// tables holds the CREATE TABLE statements in dependency order. Two
// placeholders are substituted per dialect: %[1]s is the
// auto-incrementing primary key column and %[2]s the column type used
// for foreign keys referencing those keys.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id %[1]s,
		username VARCHAR(64) NOT NULL UNIQUE,
		age INTEGER NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(100) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		id %[1]s,
		user_id %[2]s NOT NULL,
		genre VARCHAR(64) NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id %[1]s,
		title VARCHAR(255) NOT NULL,
		year INTEGER NOT NULL,
		director VARCHAR(255),
		poster_url VARCHAR(512),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		id %[1]s,
		movie_id %[2]s NOT NULL,
		genre VARCHAR(64) NOT NULL,
		FOREIGN KEY (movie_id) REFERENCES movies (id)
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id %[1]s,
		movie_id %[2]s NOT NULL,
		user_id %[2]s NOT NULL,
		content TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		FOREIGN KEY (movie_id) REFERENCES movies (id),
		FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id %[1]s,
		user_id %[2]s NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		revoked_at TIMESTAMP NULL DEFAULT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
}

// Provision creates the tables if absent and seeds the baseline
// catalog when the movies table is empty. Safe to call on every
// start. Any storage error is fatal to startup and returned unmasked.
func (s *Schema) Provision(ctx context.Context) error {
	pk, ref := s.dialect()
	for _, ddl := range tables {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf(ddl, pk, ref)); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	if err := s.createIndexes(ctx); err != nil {
		return err
	}
	return s.seed(ctx)
}

func (s *Schema) dialect() (pk, ref string) {
	if s.driver == "mysql" {
		return "BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY", "BIGINT UNSIGNED"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT", "INTEGER"
}

// createIndexes adds the thread read index and the token lookup index.
// MySQL has no CREATE INDEX IF NOT EXISTS, so on that engine a
// duplicate-name error (1061) from a previous run is ignored.
func (s *Schema) createIndexes(ctx context.Context) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_chat_messages_thread ON chat_messages (movie_id, timestamp)",
		"CREATE INDEX IF NOT EXISTS idx_refresh_tokens_hash ON refresh_tokens (token_hash)",
	}
	if s.driver == "mysql" {
		stmts = []string{
			"CREATE INDEX idx_chat_messages_thread ON chat_messages (movie_id, timestamp)",
			"CREATE INDEX idx_refresh_tokens_hash ON refresh_tokens (token_hash)",
		}
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			if s.driver == "mysql" && strings.Contains(err.Error(), "1061") {
				continue
			}
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// seed inserts the baseline catalog if and only if the movies table is
// empty. The emptiness check and the inserts share one transaction so
// a crash cannot leave a half-written catalog and a restart cannot
// duplicate it.
func (s *Schema) seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return tx.Commit()
	}

	for _, m := range seedCatalog {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO movies (title, year, director) VALUES (?,?,?)",
			m.Title, m.Year, m.Director)
		if err != nil {
			return err
		}
		movieID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, g := range m.Genres {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO movie_genres (movie_id, genre) VALUES (?,?)",
				movieID, g); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
