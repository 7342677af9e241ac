// Dumps every persisted watchlist snapshot into data/mirror.json in the
// shape cmd/mirror-server serves.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/larswan/letterbuds/internal/scraper"
	"github.com/larswan/letterbuds/pkg/database"
	"github.com/larswan/letterbuds/pkg/models"
)

type memberRecord struct {
	Profile *models.Profile `json:"profile,omitempty"`
	Films   []models.Film   `json:"films"`
}

type mirrorFile struct {
	ExportedAt time.Time               `json:"exported_at"`
	Members    map[string]memberRecord `json:"members"`
}

func main() {
	outPath := "data/mirror.json"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	snaps, err := scraper.ListSnapshots(ctx, db)
	if err != nil {
		log.Fatalf("list snapshots: %v", err)
	}

	out := mirrorFile{
		ExportedAt: time.Now().UTC(),
		Members:    make(map[string]memberRecord, len(snaps)),
	}
	for _, snap := range snaps {
		out.Members[snap.Username] = memberRecord{Films: snap.Films}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("ensure output dir: %v", err)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("marshal mirror: %v", err)
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		log.Fatalf("write %s: %v", outPath, err)
	}

	log.Printf("exported %d members to %s", len(out.Members), outPath)
}
