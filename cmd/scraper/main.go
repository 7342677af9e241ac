// Standalone scrape runner: fetches the given members' watchlists and
// profiles and persists them, so the mirror export and demos have data
// without going through the API server.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/larswan/letterbuds/internal/scraper"
	"github.com/larswan/letterbuds/pkg/database"
)

func main() {
	delay := flag.Duration("delay", 750*time.Millisecond, "pause between members")
	flag.Parse()

	usernames := flag.Args()
	if len(usernames) == 0 {
		log.Fatal("usage: scraper [-delay 750ms] username [username ...]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	client := scraper.NewClient()

	for i, username := range usernames {
		if i > 0 {
			time.Sleep(*delay)
		}

		log.Printf("[scraper] fetching watchlist for %s", username)
		films, err := client.FetchWatchlist(ctx, username)
		if err != nil {
			log.Printf("[scraper] watchlist for %s failed: %v", username, err)
			continue
		}
		if err := scraper.SaveWatchlist(ctx, db, username, films); err != nil {
			log.Fatalf("save watchlist for %s: %v", username, err)
		}
		log.Printf("[scraper] saved %d films for %s", len(films), username)

		profile, err := client.FetchProfile(ctx, username)
		if err != nil {
			log.Printf("[scraper] profile for %s failed: %v", username, err)
			continue
		}
		if err := scraper.SaveProfile(ctx, db, username, profile); err != nil {
			log.Fatalf("save profile for %s: %v", username, err)
		}
	}

	log.Println("done")
}
