package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/larswan/letterbuds/internal/cache"
	"github.com/larswan/letterbuds/internal/compare"
	"github.com/larswan/letterbuds/internal/enrich"
	"github.com/larswan/letterbuds/internal/live"
	"github.com/larswan/letterbuds/internal/metrics"
	"github.com/larswan/letterbuds/internal/scraper"
	"github.com/larswan/letterbuds/pkg/database"
	"github.com/larswan/letterbuds/pkg/utils"
)

func main() {
	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	svcCfg := utils.LoadServiceConfig()

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := live.NewHub()
	router.GET("/ws", live.WSHandler(hub))

	cacheCfg := cache.DefaultConfig()
	cacheCfg.TTL = svcCfg.CacheTTL
	session := cache.New(cacheCfg, time.Now)

	var fetcher scraper.Fetcher
	if svcCfg.MirrorURL != "" {
		log.Printf("using mirror source at %s", svcCfg.MirrorURL)
		fetcher = scraper.NewMirror(svcCfg.MirrorURL)
	} else {
		fetcher = scraper.NewClient()
	}

	enricher := enrich.NewClient(svcCfg.TMDBAPIKey)
	if !enricher.Enabled() {
		log.Println("no TMDB API key configured, enrichment disabled")
	}

	svc := compare.NewService(session, fetcher, enricher, hub, db, svcCfg.FetchDelay, svcCfg.EnrichDelay)
	handler := compare.NewHandler(svc)
	handler.RegisterRoutes(router.Group("/api"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":             dbCfg.Path,
			"ws_clients":     stats.WSClients,
			"source":         fetcher.Name(),
			"enrichment":     enricher.Enabled(),
			"cached_lists":   session.Watchlists.Len(),
			"cached_records": session.Enriched.Len(),
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
