package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/troyes-analytics/effectif/internal/scrape"
)

// Simple test utility to fetch and print the current Troyes squad table
func main() {
	log.Println("Probing Transfermarkt Squad Page")
	log.Println("================================")

	url := scrape.DefaultSquadURL
	if len(os.Args) > 1 {
		url = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher := scrape.NewHTTPFetcher(20 * time.Second)
	parser := scrape.NewDocumentParser(fetcher, url)

	log.Printf("Fetching %s ...", url)
	dataset, err := parser.Parse(ctx)
	if err != nil {
		log.Fatalf("Failed to parse squad page: %v", err)
	}

	log.Printf("✓ Found %d players\n", dataset.Len())

	for i, player := range dataset.Players {
		log.Printf("%2d. %-28s %-11s age %2d  %6.2f M€  expires %s",
			i+1, player.Name, player.Position, player.Age, player.MarketValue, player.ContractExpires)
	}

	log.Println("================================")
	log.Printf("✓ %d players, %.2f M€ total, mean age %.1f, %d distinct positions",
		dataset.Len(), dataset.TotalMarketValue(), dataset.MeanAge(), dataset.DistinctPositions())
}
