package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/larswan/letterbuds/pkg/models"
)

const defaultBaseURL = "https://letterboxd.com"

// userAgents is rotated across attempts so retries after a 429 don't
// present the exact same fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0",
}

// Client scrapes member data from the live site.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Retries  int           // attempts per page, including the first
	Backoff  time.Duration // base backoff, grows linearly per attempt
	MaxPages int           // watchlist pagination safety cap
}

// NewClient creates a scraping client with demo-safe limits.
func NewClient() *Client {
	return &Client{
		BaseURL:  defaultBaseURL,
		HTTP:     &http.Client{Timeout: 12 * time.Second},
		Retries:  3,
		Backoff:  800 * time.Millisecond,
		MaxPages: 40,
	}
}

func (c *Client) Name() string { return "letterboxd" }

// FetchWatchlist walks /<username>/watchlist/page/N/ until a page yields
// no films, normalizing each poster block into a models.Film.
func (c *Client) FetchWatchlist(ctx context.Context, username string) ([]models.Film, error) {
	var all []models.Film

	for page := 1; page <= c.MaxPages; page++ {
		url := fmt.Sprintf("%s/%s/watchlist/page/%d/", c.BaseURL, username, page)
		body, err := c.fetch(ctx, url)
		if err != nil {
			if page > 1 && err == ErrNotFound {
				// Past the last page; some deployments 404 instead of
				// serving an empty page.
				break
			}
			return nil, err
		}

		films := parseWatchlistHTML(body)
		if len(films) == 0 {
			break
		}
		all = append(all, films...)
	}

	return all, nil
}

// FetchProfile scrapes display name and avatar from the member's profile
// page. Failures are non-fatal to the caller; matching proceeds without
// a profile.
func (c *Client) FetchProfile(ctx context.Context, username string) (*models.Profile, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("%s/%s/", c.BaseURL, username))
	if err != nil {
		return nil, err
	}
	return parseProfileHTML(body, username), nil
}

// FetchFollowing scrapes the member's following list (first page).
func (c *Client) FetchFollowing(ctx context.Context, username string) ([]models.Connection, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("%s/%s/following/", c.BaseURL, username))
	if err != nil {
		return nil, err
	}
	return parseFollowingHTML(body), nil
}

// fetch performs one GET with retry on transient upstream conditions.
// 404 maps to ErrNotFound and 403 to ErrForbidden immediately; 429 and
// 5xx are retried with linear backoff and a rotated User-Agent.
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.Backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", fmt.Errorf("scraper: build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgents[attempt%len(userAgents)])
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("scraper: request %s: %w", url, err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = fmt.Errorf("scraper: read %s: %w", url, readErr)
				continue
			}
			return string(body), nil
		case resp.StatusCode == http.StatusNotFound:
			return "", ErrNotFound
		case resp.StatusCode == http.StatusForbidden:
			return "", ErrForbidden
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = ErrRateLimited
			log.Printf("[scraper] 429 from %s, attempt %d/%d", url, attempt+1, c.Retries)
		case resp.StatusCode >= 500:
			lastErr = ErrServiceUnavailable
			log.Printf("[scraper] %d from %s, attempt %d/%d", resp.StatusCode, url, attempt+1, c.Retries)
		default:
			return "", fmt.Errorf("scraper: unexpected status %d from %s", resp.StatusCode, url)
		}
	}

	if lastErr == nil {
		lastErr = ErrServiceUnavailable
	}
	return "", lastErr
}
