package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Open connects to the configured storage engine and verifies the
// connection. Two drivers are supported: "mysql" for a shared server
// deployment and "sqlite" for a single-file (or in-memory) database.
// All components share the returned handle; no component assumes
// exclusive ownership of it.
func Open(driver, user, pass, host, port, name string) (*sql.DB, error) {
	switch driver {
	case "mysql":
		return openMySQL(user, pass, host, port, name)
	case "sqlite":
		return OpenSQLite(name)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

func openMySQL(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	return ping(db)
}

// OpenSQLite opens a SQLite database at the given path, e.g.
// "moviegram.db" or ":memory:". Foreign keys are switched on so the
// chat and preference tables get real referential integrity, and
// busy_timeout lets concurrent writers wait instead of failing.
func OpenSQLite(path string) (*sql.DB, error) {
	// _time_format=sqlite stores time.Time as sortable SQLite datetime
	// text, so ORDER BY timestamp compares chronologically.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite")
	if err != nil {
		return nil, err
	}

	if strings.Contains(path, ":memory:") {
		// Each pooled connection would otherwise see its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	return ping(db)
}

// ping verifies the connection with a bounded timeout.
func ping(db *sql.DB) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
