// Package database opens the local SQLite file that backs scraped
// watchlist and profile snapshots, and applies the embedded schema.
package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

type Config struct {
	Path string
}

// DefaultConfig resolves the database location: LETTERBUDS_DB_PATH when
// set, otherwise ~/.letterbuds/data.db.
func DefaultConfig() Config {
	if p := os.Getenv("LETTERBUDS_DB_PATH"); p != "" {
		return Config{Path: p}
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return Config{Path: filepath.Join(home, ".letterbuds", "data.db")}
}

// Open creates the data directory if needed and opens the SQLite file.
// Foreign keys, WAL journaling, and a busy timeout are set through the
// DSN so every connection in the pool gets them.
func Open(cfg Config) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir for %s: %w", cfg.Path, err)
	}

	dsn := "file:" + cfg.Path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", cfg.Path, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite at %s: %w", cfg.Path, err)
	}
	return db, nil
}

// MustOpen is Open for main functions.
func MustOpen(cfg Config) *sql.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	return db
}

// Migrate applies the embedded schema. Every statement uses
// IF NOT EXISTS, so running it on an already migrated file is a no-op.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
