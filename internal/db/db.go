package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	chat_id INTEGER NOT NULL UNIQUE,
	username TEXT,
	tg_name TEXT,
	added_at TEXT NOT NULL,
	lookups INTEGER NOT NULL DEFAULT 0
)`

// Registry is the user table in a libsql (Turso) database.
type Registry struct {
	db *sql.DB
}

// Open connects to the database at dbURL and makes sure the schema exists.
func Open(ctx context.Context, dbURL, authToken string) (*Registry, error) {
	dsn, err := dataSourceName(dbURL, authToken)
	if err != nil {
		return nil, err
	}
	database, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(25)
	database.SetConnMaxLifetime(5 * time.Minute)

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	r := NewRegistry(database)
	if err := r.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return r, nil
}

func NewRegistry(database *sql.DB) *Registry {
	return &Registry{db: database}
}

func (r *Registry) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// Close closes the database connection safely
func (r *Registry) Close() {
	if r == nil || r.db == nil {
		return
	}
	if err := r.db.Close(); err != nil {
		log.Printf("error closing database: %v", err)
	}
}

func dataSourceName(dbURL, authToken string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("invalid database url %q: missing scheme", dbURL)
	}
	if authToken != "" {
		q := u.Query()
		q.Set("authToken", authToken)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
