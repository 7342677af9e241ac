package database

import (
	"path/filepath"
	"testing"
)

func TestOpenAndMigrate(t *testing.T) {
	cfg := Config{Path: filepath.Join(t.TempDir(), "nested", "data.db")}

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	// The schema is embedded, so migration works regardless of the
	// process working directory, and reapplying it is a no-op.
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	if _, err := db.Exec(
		`INSERT INTO watchlists (username, payload, film_count) VALUES (?, ?, ?)`,
		"alice", `[{"title":"Beta","year":2000}]`, 1,
	); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var count int
	if err := db.QueryRow(
		`SELECT film_count FROM watchlists WHERE username = ?`, "alice",
	).Scan(&count); err != nil {
		t.Fatalf("select: %v", err)
	}
	if count != 1 {
		t.Errorf("film_count = %d, want 1", count)
	}
}
