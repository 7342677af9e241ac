package compare

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/larswan/letterbuds/internal/metrics"
	"github.com/larswan/letterbuds/internal/scraper"
)

const (
	minMembers = 2
	maxMembers = 10
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/compare", h.compare)
	rg.GET("/compare/:id", h.result)
	rg.GET("/members/:username/watchlist", h.watchlist)
	rg.GET("/members/:username/following", h.following)
}

type compareReq struct {
	Usernames []string `json:"usernames"`
}

func (h *Handler) compare(c *gin.Context) {
	var req compareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	usernames := normalizeUsernames(req.Usernames)
	if len(usernames) < minMembers || len(usernames) > maxMembers {
		metrics.ComparisonsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "between 2 and 10 distinct usernames required",
		})
		return
	}

	comp, err := h.Service.Compare(c.Request.Context(), usernames)
	if err != nil {
		metrics.ComparisonsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comparison failed"})
		return
	}

	// Members whose fetch failed contribute zero films. The matcher
	// still produced a well-defined all-zero result; whether that is
	// worth showing is our call, and we reject it here.
	var failed []string
	nonEmpty := 0
	for username, count := range comp.Result.PerMemberCount {
		if count > 0 {
			nonEmpty++
		} else {
			failed = append(failed, username)
		}
	}
	if nonEmpty < minMembers {
		metrics.ComparisonsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "fewer than 2 members have a readable watchlist",
			"failed_members": failed,
		})
		return
	}

	metrics.ComparisonsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, comp)
}

func (h *Handler) result(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	comp, ok := h.Service.Result(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "comparison not found"})
		return
	}
	c.JSON(http.StatusOK, comp)
}

func (h *Handler) watchlist(c *gin.Context) {
	username := normalizeUsername(c.Param("username"))
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}

	films, cached, err := h.Service.Watchlist(c.Request.Context(), username)
	if err != nil {
		status, msg := scrapeErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"cached":   cached,
		"count":    len(films),
		"films":    films,
	})
}

func (h *Handler) following(c *gin.Context) {
	username := normalizeUsername(c.Param("username"))
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}

	conns, err := h.Service.Following(c.Request.Context(), username)
	if err != nil {
		status, msg := scrapeErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":  username,
		"count":     len(conns),
		"following": conns,
	})
}

func scrapeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, scraper.ErrNotFound):
		return http.StatusNotFound, "member not found"
	case errors.Is(err, scraper.ErrForbidden):
		return http.StatusForbidden, "member data not accessible"
	case errors.Is(err, scraper.ErrRateLimited):
		return http.StatusTooManyRequests, "upstream rate limit, try again shortly"
	case errors.Is(err, scraper.ErrServiceUnavailable):
		return http.StatusBadGateway, "upstream unavailable"
	default:
		return http.StatusInternalServerError, "fetch failed"
	}
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeUsernames lowercases, trims, and deduplicates while keeping
// first-seen order; order matters downstream for combination output.
func normalizeUsernames(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		u := normalizeUsername(raw)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
