// Exports one member's persisted watchlist snapshot as CSV.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/larswan/letterbuds/internal/scraper"
	"github.com/larswan/letterbuds/pkg/database"
)

func main() {
	out := flag.String("out", "", "output file (default: <username>-watchlist.csv)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: export-csv [-out file.csv] username")
	}
	username := strings.ToLower(strings.TrimSpace(flag.Arg(0)))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	snap, err := scraper.LoadWatchlist(ctx, db, username)
	if err != nil {
		log.Fatalf("load watchlist: %v", err)
	}
	if snap == nil {
		log.Fatalf("no snapshot for %s; run cmd/scraper first", username)
	}

	path := *out
	if path == "" {
		path = username + "-watchlist.csv"
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"title", "year", "tmdb_id", "imdb_id", "poster_url"}); err != nil {
		log.Fatalf("write header: %v", err)
	}
	for _, film := range snap.Films {
		year := ""
		if film.Year > 0 {
			year = strconv.Itoa(film.Year)
		}
		tmdb := ""
		if film.TMDBID > 0 {
			tmdb = strconv.Itoa(film.TMDBID)
		}
		if err := w.Write([]string{film.Title, year, tmdb, film.IMDBID, film.PosterURL}); err != nil {
			log.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush csv: %v", err)
	}

	log.Printf("wrote %d films to %s", len(snap.Films), path)
}
