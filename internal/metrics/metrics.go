// Package metrics exposes Prometheus instrumentation for the acquisition
// pipeline and the serving layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/troyes-analytics/effectif/internal/acquire"
	"github.com/troyes-analytics/effectif/internal/squad"
)

// Acquisition metrics
var (
	scrapeAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "effectif_scrape_attempts_total",
			Help: "Cumulative acquisition attempts against the squad source",
		},
	)
	scrapeSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "effectif_scrape_success",
			Help: "Whether the last acquisition produced live data (1=live, 0=fallback)",
		},
	)
	scrapeDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "effectif_scrape_duration_seconds",
			Help: "Time taken for the last acquisition run in seconds",
		},
	)
)

// Dataset metrics
var (
	datasetPlayers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "effectif_dataset_players",
			Help: "Players in the currently served dataset",
		},
	)
	datasetValue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "effectif_dataset_total_value_meur",
			Help: "Total market value of the served dataset in millions of euros",
		},
	)
	positionPlayers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "effectif_dataset_position_players",
			Help: "Players per normalized position in the served dataset",
		},
		[]string{"position"},
	)
)

// Serving metrics
var (
	connectedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "effectif_websocket_clients",
			Help: "Currently connected websocket clients",
		},
	)
)

func init() {
	prometheus.MustRegister(scrapeAttempts, scrapeSuccess, scrapeDuration)
	prometheus.MustRegister(datasetPlayers, datasetValue, positionPlayers)
	prometheus.MustRegister(connectedClients)
}

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRun records the outcome of one acquisition run.
func ObserveRun(result *acquire.Result, elapsed time.Duration) {
	scrapeAttempts.Add(float64(result.Attempts))
	if result.Source == squad.SourceLive {
		scrapeSuccess.Set(1)
	} else {
		scrapeSuccess.Set(0)
	}
	scrapeDuration.Set(elapsed.Seconds())
}

// ObserveDataset records the shape of the dataset now being served.
func ObserveDataset(d *squad.Dataset) {
	datasetPlayers.Set(float64(d.Len()))
	datasetValue.Set(d.TotalMarketValue())

	positionPlayers.Reset()
	counts := make(map[squad.Position]int)
	for _, p := range d.Players {
		counts[p.Position]++
	}
	for pos, n := range counts {
		positionPlayers.WithLabelValues(string(pos)).Set(float64(n))
	}
}

// SetConnectedClients records the live websocket client count.
func SetConnectedClients(n int64) {
	connectedClients.Set(float64(n))
}
