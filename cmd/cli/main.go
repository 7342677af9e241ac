// Command-line client for the letterbuds API server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/larswan/letterbuds/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type compareResponse struct {
	ComparisonID string                     `json:"comparison_id"`
	Profiles     map[string]*models.Profile `json:"profiles"`
	Tiers        []models.RankedTier        `json:"tiers"`
	Result       struct {
		PerMemberCount map[string]int `json:"per_member_count"`
	} `json:"result"`
}

type watchlistResponse struct {
	Username string        `json:"username"`
	Cached   bool          `json:"cached"`
	Count    int           `json:"count"`
	Films    []models.Film `json:"films"`
}

type followingResponse struct {
	Username  string              `json:"username"`
	Count     int                 `json:"count"`
	Following []models.Connection `json:"following"`
}

func main() {
	global := flag.NewFlagSet("letterbuds", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 60 * time.Second}

	switch args[0] {
	case "compare":
		handleCompare(ctx, client, *baseURL, args[1:])
	case "watchlist":
		handleWatchlist(ctx, client, *baseURL, args[1:])
	case "following":
		handleFollowing(ctx, client, *baseURL, args[1:])
	case "watch":
		handleWatch(*baseURL)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleCompare(ctx context.Context, client *http.Client, baseURL string, usernames []string) {
	if len(usernames) < 2 {
		log.Fatal("compare needs at least 2 usernames")
	}

	payload, _ := json.Marshal(map[string][]string{"usernames": usernames})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/compare", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp compareResponse
	doJSON(client, req, &resp)

	fmt.Printf("comparison %s\n\n", resp.ComparisonID)
	for username, count := range resp.Result.PerMemberCount {
		name := username
		if p := resp.Profiles[username]; p != nil && p.DisplayName != "" {
			name = p.DisplayName
		}
		fmt.Printf("  %s: %d films in watchlist\n", name, count)
	}
	fmt.Println()

	for _, tier := range resp.Tiers {
		fmt.Printf("groups of %d:\n", tier.MemberCount)
		for _, g := range tier.Groups {
			fmt.Printf("  %s: %d in common\n", strings.Join(g.Members, " + "), g.CommonCount)
			for i, film := range g.CommonFilms {
				if i >= 10 {
					fmt.Printf("    ... and %d more\n", g.CommonCount-i)
					break
				}
				if film.Year > 0 {
					fmt.Printf("    %s (%d)\n", film.Title, film.Year)
				} else {
					fmt.Printf("    %s\n", film.Title)
				}
			}
		}
		fmt.Println()
	}
}

func handleWatchlist(ctx context.Context, client *http.Client, baseURL string, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: watchlist <username>")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/members/%s/watchlist", baseURL, url.PathEscape(args[0])), nil)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}

	var resp watchlistResponse
	doJSON(client, req, &resp)

	source := "scraped"
	if resp.Cached {
		source = "cached"
	}
	fmt.Printf("%s: %d films (%s)\n", resp.Username, resp.Count, source)
	for _, film := range resp.Films {
		if film.Year > 0 {
			fmt.Printf("  %s (%d)\n", film.Title, film.Year)
		} else {
			fmt.Printf("  %s\n", film.Title)
		}
	}
}

func handleFollowing(ctx context.Context, client *http.Client, baseURL string, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: following <username>")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/members/%s/following", baseURL, url.PathEscape(args[0])), nil)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}

	var resp followingResponse
	doJSON(client, req, &resp)

	fmt.Printf("%s follows %d members\n", resp.Username, resp.Count)
	for _, conn := range resp.Following {
		if conn.DisplayName != "" && conn.DisplayName != conn.Username {
			fmt.Printf("  %s (%s)\n", conn.Username, conn.DisplayName)
		} else {
			fmt.Printf("  %s\n", conn.Username)
		}
	}
}

// handleWatch subscribes to the live feed and prints enrichment events as
// they arrive.
func handleWatch(baseURL string) {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	log.Printf("listening on %s (ctrl-c to stop)", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if err != io.EOF {
				log.Printf("read: %v", err)
			}
			return
		}
		fmt.Print(string(msg))
	}
}

func doJSON(client *http.Client, req *http.Request, dst any) {
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		log.Fatalf("decode response: %v", err)
	}
}

func printUsage() {
	fmt.Println(`letterbuds CLI

usage:
  cli [-api URL] compare <username> <username> [...]
  cli [-api URL] watchlist <username>
  cli [-api URL] following <username>
  cli [-api URL] watch`)
}
