package utils

import (
	"os"
	"strconv"
	"time"
)

type ServiceConfig struct {
	TMDBAPIKey  string        // empty disables enrichment
	MirrorURL   string        // non-empty switches scraping to the local mirror
	FetchDelay  time.Duration // between outbound member fetches
	EnrichDelay time.Duration // between film enrichment lookups
	CacheTTL    time.Duration
}

func LoadServiceConfig() ServiceConfig {
	return ServiceConfig{
		TMDBAPIKey:  os.Getenv("LETTERBUDS_TMDB_API_KEY"),
		MirrorURL:   os.Getenv("LETTERBUDS_MIRROR_URL"),
		FetchDelay:  envDuration("LETTERBUDS_FETCH_DELAY_MS", 750*time.Millisecond),
		EnrichDelay: envDuration("LETTERBUDS_ENRICH_DELAY_MS", 250*time.Millisecond),
		CacheTTL:    envDuration("LETTERBUDS_CACHE_TTL_MIN", time.Hour),
	}
}

// envDuration reads an integer env var (milliseconds for *_MS names,
// minutes for *_MIN names) and falls back to def on absence or bad input.
func envDuration(name string, def time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if len(name) > 3 && name[len(name)-3:] == "_MS" {
		return time.Duration(n) * time.Millisecond
	}
	return time.Duration(n) * time.Minute
}
