package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/troyes-analytics/effectif/internal/acquire"
	"github.com/troyes-analytics/effectif/internal/scrape"
	"github.com/troyes-analytics/effectif/internal/squad"
	"github.com/troyes-analytics/effectif/internal/verify"
)

// Standalone check that the live Transfermarkt page still matches the
// expected Troyes squad baseline. Exits 0 when every check passes, 1 on
// mismatches, 2 when live data could not be acquired at all.
func main() {
	log.Println("Verifying Troyes Squad Data")
	log.Println("===========================")

	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded environment from .env")
	}

	url := getEnv("SQUAD_URL", scrape.DefaultSquadURL)

	var fetcher scrape.Fetcher
	if getEnv("SCRAPE_BROWSER", "false") == "true" {
		browser := scrape.NewBrowserFetcher(60 * time.Second)
		defer browser.Close()
		fetcher = browser
		log.Println("→ Using headless Chrome fetcher")
	} else {
		fetcher = scrape.NewHTTPFetcher(20 * time.Second)
	}

	parser := scrape.NewDocumentParser(fetcher, url)
	controller := acquire.New(parser, acquire.DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	log.Printf("→ Acquiring squad data from %s", url)
	result := controller.Run(ctx)
	if result.Source != squad.SourceLive {
		log.Printf("❌ Could not acquire live data after %d attempts: %s", result.Attempts, result.LastError)
		os.Exit(2)
	}
	log.Printf("✓ Acquired %d players in %d attempt(s)", result.Dataset.Len(), result.Attempts)

	report := verify.Run(result)
	report.Log()
	if !report.OK() {
		os.Exit(1)
	}

	log.Println("===========================")
	log.Println("✓ Live data matches the expected baseline")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
