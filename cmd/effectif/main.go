package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/troyes-analytics/effectif/internal/acquire"
	"github.com/troyes-analytics/effectif/internal/api/rest"
	"github.com/troyes-analytics/effectif/internal/api/websocket"
	"github.com/troyes-analytics/effectif/internal/appstate"
	"github.com/troyes-analytics/effectif/internal/cache"
	"github.com/troyes-analytics/effectif/internal/publisher"
	"github.com/troyes-analytics/effectif/internal/scheduler"
	"github.com/troyes-analytics/effectif/internal/scrape"
	"github.com/troyes-analytics/effectif/internal/service"
	"github.com/troyes-analytics/effectif/internal/session"
)

const (
	serviceName    = "effectif"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - ESTAC Troyes Squad Service", serviceName, serviceVersion)

	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded environment from .env")
	}

	config := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := appstate.New()

	// Pick the fetch strategy for the squad page
	var fetcher scrape.Fetcher
	if config.ScrapeBrowser {
		browser := scrape.NewBrowserFetcher(config.ScrapeTimeout * 3)
		defer browser.Close()
		fetcher = browser
		log.Println("✓ Browser fetcher initialized (headless Chrome)")
	} else {
		fetcher = scrape.NewHTTPFetcher(config.ScrapeTimeout)
		log.Println("✓ HTTP fetcher initialized")
	}

	parser := scrape.NewDocumentParser(fetcher, config.SquadURL)
	controller := acquire.New(parser, acquire.DefaultConfig())

	// Created before bootstrap so the first refresh event is queued for
	// clients that connect right after startup.
	wsServer := websocket.NewServer()

	opts := scheduler.Options{
		Broadcaster: wsServer,
		State:       state,
		Interval:    config.RefreshInterval,
	}

	if config.RedisURL != "" {
		snapshots, err := cache.NewSnapshotCache(config.RedisURL, config.SnapshotTTL)
		if err != nil {
			log.Printf("⚠️  redis snapshot cache unavailable, continuing without: %v", err)
		} else {
			defer snapshots.Close()
			opts.Snapshots = snapshots
			log.Println("✓ Redis snapshot cache connected")
		}

		streams, err := publisher.NewStreamPublisher(config.RedisURL)
		if err != nil {
			log.Printf("⚠️  redis stream publisher unavailable, continuing without: %v", err)
		} else {
			defer streams.Close()
			opts.Publisher = streams
			log.Println("✓ Redis stream publisher connected")
		}
	}

	refresher := scheduler.NewRefresher(controller, opts)

	log.Println("Acquiring initial dataset...")
	refresher.Bootstrap(ctx)
	initial := refresher.Current()
	log.Printf("✓ Initial dataset installed: %d players (%s)", initial.Dataset.Len(), initial.Source)

	squads := service.NewSquadService(refresher)
	sessions := session.NewStore(config.SessionTTL)

	creds := rest.Credentials{Username: config.Username, Password: config.Password}
	if !creds.Configured() {
		log.Println("⚠️  APP_USERNAME / APP_PASSWORD not set, logins will be refused")
	}

	handler := rest.NewHandler(squads, refresher, sessions, state, creds)
	restServer := rest.NewServer(config.RESTPort, handler)

	go func() {
		log.Printf("Starting REST API server on port %s", config.RESTPort)
		if err := restServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("REST server error: %v", err)
		}
	}()

	go func() {
		log.Printf("Starting WebSocket server on port %s", config.WSPort)
		if err := wsServer.Start(config.WSPort); err != nil && err != http.ErrServerClosed {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	go refresher.Run(ctx)

	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", config.RESTPort)
	log.Printf("  WebSocket: ws://0.0.0.0:%s", config.WSPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

type Config struct {
	SquadURL        string
	ScrapeTimeout   time.Duration
	ScrapeBrowser   bool
	RefreshInterval time.Duration
	RedisURL        string
	SnapshotTTL     time.Duration
	RESTPort        string
	WSPort          string
	Username        string
	Password        string
	SessionTTL      time.Duration
}

func loadConfig() Config {
	return Config{
		SquadURL:        getEnv("SQUAD_URL", scrape.DefaultSquadURL),
		ScrapeTimeout:   time.Duration(getEnvInt("SCRAPE_TIMEOUT_SECONDS", 20)) * time.Second,
		ScrapeBrowser:   getEnvBool("SCRAPE_BROWSER", false),
		RefreshInterval: time.Duration(getEnvInt("REFRESH_INTERVAL_HOURS", 24)) * time.Hour,
		RedisURL:        getEnv("REDIS_URL", ""),
		SnapshotTTL:     time.Duration(getEnvInt("SNAPSHOT_TTL_HOURS", 6)) * time.Hour,
		RESTPort:        getEnv("REST_PORT", "8090"),
		WSPort:          getEnv("WS_PORT", "8091"),
		Username:        getEnv("APP_USERNAME", ""),
		Password:        getEnv("APP_PASSWORD", ""),
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
