package scraper

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/larswan/letterbuds/pkg/models"
)

// The watchlist grid is a sequence of poster divs. We cut the page into
// per-poster chunks first, then probe each chunk with a chain of
// patterns: upstream markup drifts, so every field has a fallback.
var (
	posterBlockRe = regexp.MustCompile(`(?s)<div[^>]*class="[^"]*film-poster[^"]*"[^>]*>.*?</div>`)

	filmNameAttrRe = regexp.MustCompile(`data-film-name="([^"]+)"`)
	imgAltRe       = regexp.MustCompile(`<img[^>]*\balt="([^"]+)"`)
	filmSlugRe     = regexp.MustCompile(`data-film-slug="([^"]+)"`)
	targetLinkRe   = regexp.MustCompile(`data-target-link="/film/([^/"]+)/?"`)
	releaseYearRe  = regexp.MustCompile(`data-film-release-year="(\d{4})"`)
	slugYearRe     = regexp.MustCompile(`-(\d{4})$`)

	ogTitleRe = regexp.MustCompile(`<meta\s+property="og:title"\s+content="([^"]*)"`)
	ogImageRe = regexp.MustCompile(`<meta\s+property="og:image"\s+content="([^"]*)"`)

	personBlockRe = regexp.MustCompile(`(?s)<div[^>]*class="[^"]*person-summary[^"]*"[^>]*>.*?</div>\s*</div>`)
	personNameRe  = regexp.MustCompile(`<a[^>]*class="[^"]*\bname\b[^"]*"[^>]*href="/([^/"]+)/"[^>]*>\s*([^<]+?)\s*</a>`)
	avatarSrcRe   = regexp.MustCompile(`<img[^>]*\bsrc="([^"]+)"`)
)

// parseWatchlistHTML extracts films from one watchlist page. Blocks that
// yield no usable title are skipped; the matching core requires a
// non-empty title and never sees one without it.
func parseWatchlistHTML(page string) []models.Film {
	blocks := posterBlockRe.FindAllString(page, -1)
	films := make([]models.Film, 0, len(blocks))

	for _, block := range blocks {
		title := extractTitle(block)
		if title == "" {
			continue
		}
		films = append(films, models.Film{
			Title: title,
			Year:  extractYear(block),
		})
	}
	return films
}

// extractTitle tries the explicit name attribute first, then the poster
// image alt text, then falls back to de-slugging the film slug.
func extractTitle(block string) string {
	if m := filmNameAttrRe.FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(html.UnescapeString(m[1]))
	}
	if m := imgAltRe.FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(html.UnescapeString(m[1]))
	}
	if slug := extractSlug(block); slug != "" {
		return titleFromSlug(slug)
	}
	return ""
}

func extractSlug(block string) string {
	if m := filmSlugRe.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	if m := targetLinkRe.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	return ""
}

// extractYear reads the release-year attribute when present, otherwise
// a trailing -YYYY disambiguation suffix on the slug. 0 means unknown.
func extractYear(block string) int {
	if m := releaseYearRe.FindStringSubmatch(block); m != nil {
		y, _ := strconv.Atoi(m[1])
		return y
	}
	if slug := extractSlug(block); slug != "" {
		if m := slugYearRe.FindStringSubmatch(slug); m != nil {
			if y, _ := strconv.Atoi(m[1]); y >= 1870 && y <= 2100 {
				return y
			}
		}
	}
	return 0
}

func titleFromSlug(slug string) string {
	slug = slugYearRe.ReplaceAllString(slug, "")
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// parseProfileHTML pulls display name and avatar from the profile page's
// OpenGraph tags, falling back to the raw username for the name.
func parseProfileHTML(page, username string) *models.Profile {
	p := &models.Profile{DisplayName: username}
	if m := ogTitleRe.FindStringSubmatch(page); m != nil {
		name := html.UnescapeString(m[1])
		// og:title reads like "Name’s profile"; keep just the name.
		for _, suffix := range []string{"’s profile", "'s profile"} {
			name = strings.TrimSuffix(name, suffix)
		}
		if name = strings.TrimSpace(name); name != "" {
			p.DisplayName = name
		}
	}
	if m := ogImageRe.FindStringSubmatch(page); m != nil {
		p.AvatarURL = m[1]
	}
	return p
}

// parseFollowingHTML extracts the members listed on a following page.
func parseFollowingHTML(page string) []models.Connection {
	blocks := personBlockRe.FindAllString(page, -1)
	conns := make([]models.Connection, 0, len(blocks))

	for _, block := range blocks {
		m := personNameRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		conn := models.Connection{
			Username:    strings.ToLower(m[1]),
			DisplayName: strings.TrimSpace(html.UnescapeString(m[2])),
		}
		if av := avatarSrcRe.FindStringSubmatch(block); av != nil {
			conn.AvatarURL = av[1]
		}
		conns = append(conns, conn)
	}
	return conns
}
