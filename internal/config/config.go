package config // package config loads application configuration from environment variables

import (
    "log" // log is used to report configuration errors and halt execution
    "os"  // os provides access to environment variables
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBDriver       string // storage engine: "sqlite" or "mysql"
    DBUser         string // database username (mysql only)
    DBPass         string // database password (mysql only, optional)
    DBHost         string // database host address (mysql only)
    DBPort         string // database port number (mysql only)
    DBName         string // database name, or the sqlite file path
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time-to-live in minutes
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and
// returns a Config. The sqlite driver is the default and needs no
// connection settings beyond the file path; the mysql driver requires
// the DB_* connection variables, enforced by must().
func Load() Config {
    cfg := Config{
        Env:            getenv("APP_ENV", "dev"),
        Port:           getenv("APP_PORT", "8080"),
        DBDriver:       getenv("DB_DRIVER", "sqlite"),
        DBName:         getenv("DB_NAME", "moviegram.db"),
        JWTSecret:      must("JWT_SECRET"),
        AccessTTLMin:   atoi(getenv("ACCESS_TOKEN_TTL_MIN", "15")),
        RefreshTTLDays: atoi(getenv("REFRESH_TOKEN_TTL_DAYS", "30")),
        BcryptCost:     atoi(getenv("BCRYPT_COST", "10")),
    }
    if cfg.DBDriver == "mysql" {
        cfg.DBUser = must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
    }
    return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
