package scraper

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/larswan/letterbuds/pkg/models"
)

// Snapshot is one persisted scrape of a member's watchlist.
type Snapshot struct {
	Username  string        `json:"username"`
	Films     []models.Film `json:"films"`
	ScrapedAt time.Time     `json:"scraped_at"`
}

// SaveWatchlist upserts a member's scraped watchlist as a JSON payload
// row, keeping the most recent scrape per member.
func SaveWatchlist(ctx context.Context, db *sql.DB, username string, films []models.Film) error {
	payload, err := json.Marshal(films)
	if err != nil {
		return fmt.Errorf("marshal watchlist for %s: %w", username, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO watchlists (username, payload, film_count, scraped_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(username) DO UPDATE SET
		  payload = excluded.payload,
		  film_count = excluded.film_count,
		  scraped_at = CURRENT_TIMESTAMP
	`, username, string(payload), len(films))
	if err != nil {
		return fmt.Errorf("upsert watchlist for %s: %w", username, err)
	}
	return nil
}

// LoadWatchlist returns the persisted snapshot for a member, or nil when
// none exists.
func LoadWatchlist(ctx context.Context, db *sql.DB, username string) (*Snapshot, error) {
	row := db.QueryRowContext(ctx, `
		SELECT username, payload, scraped_at
		FROM watchlists
		WHERE username = ?
	`, username)

	var snap Snapshot
	var payload string
	if err := row.Scan(&snap.Username, &payload, &snap.ScrapedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get watchlist for %s: %w", username, err)
	}
	if err := json.Unmarshal([]byte(payload), &snap.Films); err != nil {
		return nil, fmt.Errorf("decode watchlist payload for %s: %w", username, err)
	}
	return &snap, nil
}

// ListSnapshots returns every persisted watchlist, newest scrape first.
func ListSnapshots(ctx context.Context, db *sql.DB) ([]Snapshot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT username, payload, scraped_at
		FROM watchlists
		ORDER BY scraped_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list watchlists: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var payload string
		if err := rows.Scan(&snap.Username, &payload, &snap.ScrapedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist row: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &snap.Films); err != nil {
			return nil, fmt.Errorf("decode watchlist payload for %s: %w", snap.Username, err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// SaveProfile upserts a member's scraped profile.
func SaveProfile(ctx context.Context, db *sql.DB, username string, p *models.Profile) error {
	if p == nil {
		return nil
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO profiles (username, display_name, avatar_url, scraped_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(username) DO UPDATE SET
		  display_name = excluded.display_name,
		  avatar_url = excluded.avatar_url,
		  scraped_at = CURRENT_TIMESTAMP
	`, username, p.DisplayName, p.AvatarURL)
	if err != nil {
		return fmt.Errorf("upsert profile for %s: %w", username, err)
	}
	return nil
}
